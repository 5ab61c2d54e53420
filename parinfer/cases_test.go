package parinfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"
)

type testCase struct {
	Name    string  `yaml:"name"`
	Text    string  `yaml:"text"`
	Options Options `yaml:"options"`
	Result  Result  `yaml:"result"`
}

func loadCases(t *testing.T, name string) []testCase {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}

	var cases []testCase
	if err := yaml.Unmarshal(b, &cases); err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	if len(cases) == 0 {
		t.Fatalf("%s: no cases", name)
	}
	return cases
}

var resultOpts = []cmp.Option{
	cmpopts.IgnoreFields(Error{}, "Message"),
	cmpopts.EquateEmpty(),
}

func runCases(t *testing.T, file string, fn func(string, Options) Result) {
	for _, tc := range loadCases(t, file) {
		t.Run(tc.Name, func(t *testing.T) {
			got := fn(tc.Text, tc.Options)
			if diff := cmp.Diff(tc.Result, got, resultOpts...); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
			if !got.Success {
				if got.Text != tc.Text {
					t.Errorf("failed result changed the text: %q", got.Text)
				}
				if got.Error == nil || got.Error.Message == "" {
					t.Errorf("failed result has no message: %+v", got.Error)
				}
			}
		})
	}
}

func TestIndentModeCases(t *testing.T) {
	runCases(t, "indent_mode.yml", IndentMode)
}

func TestParenModeCases(t *testing.T) {
	runCases(t, "paren_mode.yml", ParenMode)
}
