package config

import (
	"flag"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ryz3006/alignzo/internal/timeutil"
)

func newContext(t *testing.T, flags map[string]string) *cli.Context {
	t.Helper()

	f := flag.NewFlagSet("sessions", flag.PanicOnError)

	for k, v := range flags {
		_ = f.String(k, "", "")

		err := f.Set(k, v)
		if err != nil {
			t.Fatal(err)
		}
	}

	return cli.NewContext(&cli.App{}, f, nil)
}

func TestFilterPeriod(t *testing.T) {
	ctx := newContext(t, map[string]string{"period": "7days"})

	cfg, err := setFilterConfig(ctx)
	if err != nil {
		t.Fatalf("expected a valid filter, got %v", err)
	}

	wantStart := timeutil.RoundToStart(time.Now().AddDate(0, 0, -6))

	if !cfg.StartTime.Equal(wantStart) {
		t.Errorf(
			"expected start time %v, got %v",
			wantStart,
			cfg.StartTime,
		)
	}
}

func TestFilterInvalidPeriod(t *testing.T) {
	ctx := newContext(t, map[string]string{"period": "fortnight"})

	_, err := setFilterConfig(ctx)
	if err == nil {
		t.Fatal("expected an error for an unknown period")
	}
}

func TestFilterExplicitRange(t *testing.T) {
	ctx := newContext(t, map[string]string{
		"start":   "2026-08-01",
		"end":     "2026-08-15",
		"project": "apollo",
	})

	cfg, err := setFilterConfig(ctx)
	if err != nil {
		t.Fatalf("expected a valid filter, got %v", err)
	}

	if cfg.ProjectID != "apollo" {
		t.Errorf("expected project apollo, got %s", cfg.ProjectID)
	}

	if !cfg.EndTime.After(cfg.StartTime) {
		t.Errorf(
			"expected end %v after start %v",
			cfg.EndTime,
			cfg.StartTime,
		)
	}
}

func TestFilterRejectsInvertedRange(t *testing.T) {
	ctx := newContext(t, map[string]string{
		"start": "2026-08-15",
		"end":   "2026-08-01",
	})

	_, err := setFilterConfig(ctx)
	if err == nil {
		t.Fatal("expected an error for an inverted date range")
	}
}
