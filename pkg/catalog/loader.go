package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"mercator-hq/promptfactory/pkg/rules"
	"mercator-hq/promptfactory/pkg/tagspec"
	"mercator-hq/promptfactory/pkg/variables"
)

// Loader reads catalog documents from the file system.
type Loader struct {
	config *LoaderConfig
	logger *slog.Logger
}

// NewLoader creates a new loader with the given configuration. A nil config
// uses DefaultLoaderConfig and a nil logger uses slog.Default().
func NewLoader(config *LoaderConfig, logger *slog.Logger) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{config: config, logger: logger}
}

// Load reads every document under paths and builds a snapshot. Every
// error found is reported; no snapshot is returned unless all documents
// are valid.
func (l *Loader) Load(paths Paths) (*Snapshot, error) {
	start := time.Now()
	errList := &ErrorList{}

	nodes, raw, nodeFiles, err := l.LoadNodes(paths.NodesDir)
	errList.Add(err)

	globals, err := l.LoadVariables(paths.VariablesFile)
	errList.Add(err)

	sets, ruleFiles, err := l.LoadRules(paths.RulesDir)
	errList.Add(err)

	if errList.HasErrors() {
		return nil, errList.ToError()
	}

	book, err := rules.NewBook(sets)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Nodes:    nodes,
		Globals:  globals,
		Rules:    book,
		Raw:      raw,
		Tags:     variables.NewTagIndex(nodes),
		Files:    nodeFiles + ruleFiles,
		query:    rules.NewConfigQuerier(raw),
	}
	if paths.VariablesFile != "" && globals != nil {
		snap.Files++
	}

	l.logger.Debug("catalog loaded",
		"snapshot", snap.ID,
		"nodes", len(nodes),
		"rule_sets", len(sets),
		"files", snap.Files,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// LoadNodes loads every node document under dir. It returns the nodes
// sorted by ID, the decoded documents keyed by node ID and the number of
// files read.
func (l *Loader) LoadNodes(dir string) ([]*tagspec.Node, map[string]any, int, error) {
	files, err := l.collectFiles(dir, true)
	if err != nil {
		return nil, nil, 0, err
	}

	errList := &ErrorList{}
	seen := make(map[string]string, len(files))
	nodes := make([]*tagspec.Node, 0, len(files))
	raw := make(map[string]any, len(files))

	for _, path := range files {
		id := documentName(path)
		if prev, dup := seen[id]; dup {
			errList.Add(&LoadError{
				FilePath: path,
				Message:  fmt.Sprintf("duplicate node ID %q (also defined in %s)", id, prev),
			})
			continue
		}
		seen[id] = path

		doc, err := l.parseFile(path)
		if err != nil {
			errList.Add(err)
			continue
		}

		node, err := l.decoder(path).Node(id, doc)
		if err != nil {
			errList.Add(decodeError(path, err))
			continue
		}

		var tree any
		if err := doc.Decode(&tree); err != nil {
			errList.Add(decodeError(path, err))
			continue
		}

		nodes = append(nodes, node)
		raw[id] = tree
	}

	if errList.HasErrors() {
		return nil, nil, 0, errList.ToError()
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, raw, len(files), nil
}

// LoadVariables loads the global variables document. An empty path or a
// missing file yields no variables.
func (l *Loader) LoadVariables(path string) ([]tagspec.NamedVariable, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("no global variables file", "path", path)
		return nil, nil
	}

	doc, err := l.parseFile(path)
	if err != nil {
		return nil, err
	}

	vars, err := l.decoder(path).Variables(doc, "variables")
	if err != nil {
		return nil, decodeError(path, err)
	}
	if vars == nil {
		vars = []tagspec.NamedVariable{}
	}
	return vars, nil
}

// LoadRules loads every rule document under dir. An empty path or a
// missing directory yields no rule sets.
func (l *Loader) LoadRules(dir string) ([]rules.RuleSet, int, error) {
	if dir == "" {
		return nil, 0, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("no rules directory", "path", dir)
		return nil, 0, nil
	}

	files, err := l.collectFiles(dir, false)
	if err != nil {
		return nil, 0, err
	}

	errList := &ErrorList{}
	sets := make([]rules.RuleSet, 0, len(files))
	for _, path := range files {
		name := documentName(path)
		if name == rules.AllSets {
			errList.Add(&LoadError{FilePath: path, Message: "rule set name is reserved", Cause: rules.ErrReservedSetName})
			continue
		}

		doc, err := l.parseFile(path)
		if err != nil {
			errList.Add(err)
			continue
		}

		list, err := l.decoder(path).Rules(name, doc)
		if err != nil {
			errList.Add(decodeError(path, err))
			continue
		}
		sets = append(sets, rules.RuleSet{Name: name, Rules: list})
	}

	if errList.HasErrors() {
		return nil, 0, errList.ToError()
	}
	return sets, len(files), nil
}

func (l *Loader) decoder(path string) *tagspec.Decoder {
	return &tagspec.Decoder{
		OnClamp: func(at string, value float64) {
			l.logger.Warn("probability out of range, clamped to [0, 1]",
				"file", path,
				"path", at,
				"value", value,
			)
		},
	}
}

// parseFile reads and parses one document.
func (l *Loader) parseFile(path string) (*yaml.Node, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if strings.EqualFold(filepath.Ext(path), ".json") {
		n, err := decodeJSON(data)
		if err != nil {
			return nil, parseError(path, "JSON parsing failed", err)
		}
		doc = *n
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(path, "YAML parsing failed", err)
	}

	if doc.Kind == 0 {
		return nil, &ParseError{FilePath: path, Message: "empty document"}
	}
	return &doc, nil
}

// readFile performs file size validation and UTF-8 validation.
func (l *Loader) readFile(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if fileInfo.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", fileInfo.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	return data, nil
}

// collectFiles collects all document paths under dir in lexical order.
// It filters by extension and skips hidden files based on configuration.
func (l *Loader) collectFiles(dir string, required bool) ([]string, error) {
	fileInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to access directory", Cause: err}
	}
	if !fileInfo.IsDir() {
		return nil, &LoadError{FilePath: dir, Message: "not a directory"}
	}

	var files []string
	visited := make(map[string]bool)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !l.config.FollowSymlinks {
				return nil
			}

			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return &LoadError{FilePath: path, Message: "failed to resolve symlink", Cause: err}
			}
			if visited[realPath] {
				return &LoadError{FilePath: path, Message: "symlink loop detected"}
			}
			visited[realPath] = true

			if !l.hasValidExtension(realPath) {
				return nil
			}
			files = append(files, path)
			return nil
		}

		if !l.hasValidExtension(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) {
			return nil, lerr
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}

	if required && len(files) == 0 {
		return nil, &LoadError{FilePath: dir, Message: "no documents found in directory"}
	}
	return files, nil
}

// hasValidExtension checks if the file has a valid document extension.
func (l *Loader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, validExt := range l.config.AllowedExtensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

// documentName returns the file base name without its extension.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var lineRe = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

func parseError(path, msg string, err error) *ParseError {
	pe := &ParseError{FilePath: path, Message: msg + ": " + err.Error(), Cause: err}
	if m := lineRe.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			pe.Column, _ = strconv.Atoi(m[2])
		}
	}
	return pe
}

func decodeError(path string, err error) *ParseError {
	pe := &ParseError{FilePath: path, Message: err.Error(), Cause: err}
	var verr *tagspec.ValidationError
	if errors.As(err, &verr) {
		pe.Line, pe.Column = verr.Line, verr.Column
		pe.Message = fmt.Sprintf("%s: %s", verr.Path, verr.Message)
	}
	return pe
}
