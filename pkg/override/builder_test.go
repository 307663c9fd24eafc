// SPDX-License-Identifier: MPL-2.0

package override

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/modeldata"
	"github.com/resc/resc/pkg/resloc"

	"github.com/charmbracelet/log"
)

func mustParse(t *testing.T, src string) *description.Description {
	t.Helper()
	desc, err := description.Parse([]byte(src), description.FormatYAML, "desc.yaml")
	if err != nil {
		t.Fatalf("description.Parse() error = %v", err)
	}
	return desc
}

func TestBuildSingleItem(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `stick: {"5": custom_stick}`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []Item{{
		Name:      "stick",
		Location:  resloc.Location{Namespace: "minecraft", Key: "stick"},
		Overrides: []Override{{Key: "5", CustomModelData: modeldata.NewID(5), Model: "custom_stick"}},
	}}
	if !reflect.DeepEqual(plan.Items, want) {
		t.Errorf("Items = %+v, want %+v", plan.Items, want)
	}
	if !reflect.DeepEqual(plan.NewModels, []string{"custom_stick"}) {
		t.Errorf("NewModels = %v", plan.NewModels)
	}
}

func TestBuildPlaceholderSubstitution(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
stick:
  "10": item/$1_thing
  fire: mymod:item/$1/$1
  plain: item/no_placeholder
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	models := map[string]string{}
	for _, o := range plan.Items[0].Overrides {
		models[o.Key] = o.Model
	}
	want := map[string]string{
		"10":    "item/10_thing",
		"fire":  "mymod:item/fire/fire",
		"plain": "item/no_placeholder",
	}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("models = %v, want %v", models, want)
	}
}

func TestBuildSortsByIdentifier(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
stick:
  "50": fifty
  "3": three
  "20": twenty
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var got []string
	for _, o := range plan.Items[0].Overrides {
		got = append(got, o.CustomModelData.String())
	}
	if want := []string{"3", "20", "50"}; !reflect.DeepEqual(got, want) {
		t.Errorf("identifiers = %v, want %v", got, want)
	}
}

func TestBuildTiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	// "Aa" and "BB" share a hash; "2112" is the same value as a literal.
	plan, err := Build(mustParse(t, `
stick:
  BB: second_spelling
  "9": nine
  Aa: first_spelling
  "2112": literal
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var models []string
	for _, o := range plan.Items[0].Overrides {
		models = append(models, o.Model)
	}
	want := []string{"nine", "second_spelling", "first_spelling", "literal"}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("models = %v, want %v", models, want)
	}
}

func TestBuildConstants(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
__:
  foo: bar
  bar: 5
  fire: sword_fire
stick:
  foo: item/$1
  fire: item/$1
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got := map[string]modeldata.ID{}
	for _, o := range plan.Items[0].Overrides {
		got[o.Key] = o.CustomModelData
	}
	want := map[string]modeldata.ID{"foo": modeldata.NewID(5), "fire": modeldata.NewID(modeldata.HashKey("sword_fire"))}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("identifiers = %v, want %v", got, want)
	}
	if plan.Constants.Len() != 3 {
		t.Errorf("Constants.Len() = %d, want 3", plan.Constants.Len())
	}
	if len(plan.Items) != 1 {
		t.Errorf("constants entry must not become an item: %+v", plan.Items)
	}
}

func TestBuildConstantsDefinedBeforeUse(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
stick:
  foo: early
__:
  foo: 7
carrot_on_a_stick:
  foo: late
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got, want := plan.Items[0].Overrides[0].CustomModelData, modeldata.NewID(modeldata.HashKey("foo")); got != want {
		t.Errorf("item before constants resolved foo = %s, want hash %s", got, want)
	}
	if got := plan.Items[1].Overrides[0].CustomModelData; got != modeldata.NewID(7) {
		t.Errorf("item after constants resolved foo = %s, want 7", got)
	}
}

func TestBuildNewModelsAreDistinct(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
stick:
  "1": shared
  "2": only_stick
carrot_on_a_stick:
  "1": shared
  "3": only_carrot
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"shared", "only_stick", "only_carrot"}
	if !reflect.DeepEqual(plan.NewModels, want) {
		t.Errorf("NewModels = %v, want %v", plan.NewModels, want)
	}
}

func TestBuildKeepsLiteralDigits(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
stick:
  "99999999999999999999": huge
  "-99999999999999999999": negative_huge
  "1_000": grouped
  " 7 ": padded
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var got []string
	for _, o := range plan.Items[0].Overrides {
		got = append(got, o.String())
	}
	want := []string{
		"-99999999999999999999 -> negative_huge",
		"7 -> padded",
		"1000 -> grouped",
		"99999999999999999999 -> huge",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("overrides = %q, want %q", got, want)
	}
}

func TestBuildKeepsModelReferencesAsWritten(t *testing.T) {
	t.Parallel()

	plan, err := Build(mustParse(t, `
stick:
  "1": "mymod:"
  "2": ":bare"
  "3": "a:b:c"
`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"mymod:", ":bare", "a:b:c"}
	if !reflect.DeepEqual(plan.NewModels, want) {
		t.Errorf("NewModels = %q, want %q", plan.NewModels, want)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{name: "constant cycle", src: "__: {a: b, b: a}\nstick: {a: x}\n", wantErr: modeldata.ErrConstantCycle},
		{name: "bad item location", src: "\":stick\": {\"1\": x}\n", wantErr: resloc.ErrInvalidResourceLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(mustParse(t, tt.src), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, description.ErrMalformed) {
				t.Errorf("Build() error should be a malformed description: %v", err)
			}
		})
	}
}

func TestBuildLogsProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	if _, err := Build(mustParse(t, "__: {foo: 5}\nstick: {foo: custom_stick}\n"), logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Defining constant", "Parsing", "stick", "Resolved"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestOverrideString(t *testing.T) {
	t.Parallel()

	o := Override{Key: "5", CustomModelData: modeldata.NewID(5), Model: "custom_stick"}
	if got := o.String(); got != "5 -> custom_stick" {
		t.Errorf("String() = %q", got)
	}
}
