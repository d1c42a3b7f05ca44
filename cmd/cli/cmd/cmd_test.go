package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		outputFormat = "table"
		catalogPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("output %q", out)
	}
}

func TestNatalCommand(t *testing.T) {
	out, err := run(t, "natal", "--datetime", "1990-06-15T09:45", "--timezone", "Europe/London",
		"--lat", "51.5074", "--lon", "-0.1278", "--place", "London", "-f", "json")
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		Kind  string `json:"chart_type"`
		Chart struct {
			Event struct {
				UTC      string `json:"datetime_utc"`
				Timezone string `json:"timezone"`
			} `json:"event"`
		} `json:"chart"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if env.Kind != "natal" || env.Chart.Event.UTC != "1990-06-15T08:45:00Z" || env.Chart.Event.Timezone != "Europe/London" {
		t.Errorf("natal = %+v", env)
	}
}

func TestCommandsRender(t *testing.T) {
	birth := []string{"--datetime", "1990-06-15T08:45:00Z", "--lat", "51.5", "--lon", "-0.12"}
	tests := []struct {
		args []string
		want string
	}{
		{append([]string{"natal", "--house-system", "All"}, birth...), "ALL HOUSE SYSTEMS"},
		{append([]string{"transit", "--at", "2024-01-01T00:00:00Z"}, birth...), "TRANSITS"},
		{append([]string{"progress", "--to", "2024-06-15"}, birth...), "SECONDARY PROGRESSIONS"},
		{append([]string{"solar-return", "--year", "2024"}, birth...), "SOLAR RETURN 2024"},
		{append([]string{"lunar-return", "--near", "2024-05-01"}, birth...), "LUNAR RETURN"},
		{append([]string{"stars", "--date", "2000-01-01"}, birth...), "FIXED STARS"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	if _, err := run(t, "natal", "--datetime", "yesterday"); err == nil {
		t.Error("unparseable datetime should fail")
	}
	if _, err := run(t, "natal", "--datetime", "1990-06-15T08:45:00Z", "-f", "html"); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := run(t, "solar-return", "--datetime", "1990-06-15T08:45:00Z", "--return-lat", "10"); err == nil {
		t.Error("half a return location should fail")
	}
}

func TestCatalogCommands(t *testing.T) {
	out, err := run(t, "catalog", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"default_house_system": "Placidus"`) {
		t.Errorf("catalog show:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "catalog.hcl")
	src := `aspect "Wide" {
  angle  = 90
  orb    = 10
  symbol = "W"
  nature = "challenging"
}

aspect "Narrow" {
  angle  = 85
  orb    = 2
  symbol = "N"
  nature = "neutral"
}

patterns {
  grand_trine {
    enabled = false
  }
  t_square {
    enabled = false
  }
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "catalog", "validate", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Narrow is shadowed by the earlier, wider Wide") || !strings.Contains(out, "2 aspects") {
		t.Errorf("catalog validate:\n%s", out)
	}
}
