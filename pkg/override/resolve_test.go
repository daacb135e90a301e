package override

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/promptfactory/pkg/tagspec"
)

func ptr[T any](v T) *T { return &v }

func fixture() []tagspec.Entry {
	return []tagspec.Entry{
		{Name: "hair", Spec: &tagspec.Group{
			Tags:        tagspec.Choices{"long", "short"},
			Prefix:      "hair ",
			Suffix:      "!",
			Probability: ptr(0.8),
		}},
		{Name: "eyes", Spec: tagspec.Choices{"blue", "green"}},
		{Name: "animal", Spec: &tagspec.Group{
			Tags: &tagspec.Group{Children: []tagspec.Entry{
				{Name: "cat", Spec: tagspec.Choices{"tabby", "calico"}},
				{Name: "dog", Spec: tagspec.Literal("poodle")},
			}},
		}},
		{Name: "outfit", Spec: &tagspec.Group{
			Children: []tagspec.Entry{
				{Name: "top", Spec: tagspec.Choices{"shirt", "sweater"}},
				{Name: "shoes", Spec: &tagspec.Group{Tags: tagspec.Literal("boots"), Probability: ptr(0.5)}},
			},
		}},
		{Name: "plain", Spec: &tagspec.Group{Tags: tagspec.Literal("x")}},
	}
}

func names(entries []tagspec.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func find(t *testing.T, entries []tagspec.Entry, name string) tagspec.Spec {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e.Spec
		}
	}
	t.Fatalf("entry %q not found in %v", name, names(entries))
	return nil
}

func TestResolve_DefaultsToRandom(t *testing.T) {
	entries := fixture()
	got, err := Resolve(entries, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if diff := cmp.Diff(fixture(), got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		field     string
		want      tagspec.Spec
		wantGone  bool
	}{
		{
			name:      "none drops the field",
			overrides: Overrides{"eyes": None()},
			field:     "eyes",
			wantGone:  true,
		},
		{
			name:      "false drops the field",
			overrides: Overrides{"outfit": Enabled(false)},
			field:     "outfit",
			wantGone:  true,
		},
		{
			name:      "true keeps the original",
			overrides: Overrides{"plain": Enabled(true)},
			field:     "plain",
			want:      &tagspec.Group{Tags: tagspec.Literal("x")},
		},
		{
			name:      "probability replaces a declared probability",
			overrides: Overrides{"hair?": Probability(0.25)},
			field:     "hair",
			want: &tagspec.Group{
				Tags:        tagspec.Choices{"long", "short"},
				Prefix:      "hair ",
				Suffix:      "!",
				Probability: ptr(0.25),
			},
		},
		{
			name:      "probability is clamped",
			overrides: Overrides{"hair": Probability(3)},
			field:     "hair",
			want: &tagspec.Group{
				Tags:        tagspec.Choices{"long", "short"},
				Prefix:      "hair ",
				Suffix:      "!",
				Probability: ptr(1.0),
			},
		},
		{
			name:      "probability ignored without a declared probability",
			overrides: Overrides{"plain": Probability(0.1)},
			field:     "plain",
			want:      &tagspec.Group{Tags: tagspec.Literal("x")},
		},
		{
			name:      "select wraps prefix and suffix",
			overrides: Overrides{"hair": Select("curly")},
			field:     "hair",
			want:      tagspec.Literal("hair curly!"),
		},
		{
			name:      "select on a list",
			overrides: Overrides{"eyes": Select("green")},
			field:     "eyes",
			want:      tagspec.Literal("green"),
		},
		{
			name:      "select a named alternative",
			overrides: Overrides{"animal": Select("cat")},
			field:     "animal",
			want:      tagspec.Choices{"tabby", "calico"},
		},
		{
			name:      "nested override inside a random container",
			overrides: Overrides{"shoes": None()},
			field:     "outfit",
			want: &tagspec.Group{Children: []tagspec.Entry{
				{Name: "top", Spec: tagspec.Choices{"shirt", "sweater"}},
			}},
		},
		{
			name:      "nested probability inside a random container",
			overrides: Overrides{"shoes": Probability(0.9)},
			field:     "outfit",
			want: &tagspec.Group{Children: []tagspec.Entry{
				{Name: "top", Spec: tagspec.Choices{"shirt", "sweater"}},
				{Name: "shoes", Spec: &tagspec.Group{Tags: tagspec.Literal("boots"), Probability: ptr(0.9)}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := fixture()
			got, err := Resolve(entries, tt.overrides)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if tt.wantGone {
				for _, e := range got {
					if e.Name == tt.field {
						t.Fatalf("field %q still present", tt.field)
					}
				}
				return
			}
			if diff := cmp.Diff(tt.want, find(t, got, tt.field)); diff != "" {
				t.Errorf("effective spec mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(fixture(), entries); diff != "" {
				t.Errorf("Resolve() modified its input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_KeepsOrder(t *testing.T) {
	got, err := Resolve(fixture(), Overrides{"eyes": None()})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"hair", "animal", "outfit", "plain"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_UnknownAlternative(t *testing.T) {
	_, err := Resolve(fixture(), Overrides{"animal": Select("horse")})

	var uerr *UnknownAlternativeError
	if !errors.As(err, &uerr) {
		t.Fatalf("Resolve() error = %v, want *UnknownAlternativeError", err)
	}
	if uerr.Field != "animal" || uerr.Name != "horse" {
		t.Errorf("error = %+v", uerr)
	}
	if !errors.Is(err, tagspec.ErrConfig) {
		t.Error("error does not wrap tagspec.ErrConfig")
	}
}

func TestResolve_ProbabilityDoesNotAlias(t *testing.T) {
	entries := fixture()
	first, err := Resolve(entries, Overrides{"hair": Probability(0.1)})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(entries, Overrides{"hair": Probability(0.9)})
	if err != nil {
		t.Fatal(err)
	}

	if p := find(t, first, "hair").(*tagspec.Group).Chance(); p != 0.1 {
		t.Errorf("first build probability = %v, want 0.1", p)
	}
	if p := find(t, second, "hair").(*tagspec.Group).Chance(); p != 0.9 {
		t.Errorf("second build probability = %v, want 0.9", p)
	}
	if p := find(t, entries, "hair").(*tagspec.Group).Chance(); p != 0.8 {
		t.Errorf("loaded probability = %v, want 0.8", p)
	}
}
