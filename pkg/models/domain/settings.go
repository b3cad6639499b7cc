package domain

import (
	"fmt"
	"strings"
)

// Mode selects which half of the pipeline runs.
type Mode string

const (
	ModeCollect Mode = "collect"
	ModeProcess Mode = "process"
	ModeAuto    Mode = "auto"
)

// TimeRange is a relative query window.
type TimeRange struct {
	Amount int
	Unit   string
}

// Label renders the window the way it appears on time-scoped report sheets,
// e.g. "Past 1 Week".
func (t TimeRange) Label() string {
	unit := t.Unit
	if unit != "" {
		unit = strings.ToUpper(unit[:1]) + unit[1:]
	}
	return fmt.Sprintf("Past %d %s", t.Amount, unit)
}

func (t TimeRange) Validate() error {
	if t.Amount < 1 || t.Amount > 3 {
		return fmt.Errorf("time range amount must be 1, 2 or 3, got %d", t.Amount)
	}
	switch t.Unit {
	case "day", "week", "month", "year":
		return nil
	default:
		return fmt.Errorf("time range unit must be one of day, week, month, year, got %q", t.Unit)
	}
}

// Settings is the resolved run configuration.
type Settings struct {
	CustomerName string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	CloudAccount string
	TimeRange    TimeRange
	Mode         Mode
	SupportAPI   bool
	Insecure     bool
	Debug        bool
}

// Validate checks the settings for the selected mode. Credentials are only
// required when the run will talk to the API.
func (s Settings) Validate() error {
	if s.CustomerName == "" {
		return fmt.Errorf("customer name is required")
	}
	switch s.Mode {
	case ModeCollect, ModeProcess, ModeAuto:
	default:
		return fmt.Errorf("mode must be one of collect, process, auto, got %q", s.Mode)
	}
	if err := s.TimeRange.Validate(); err != nil {
		return err
	}
	if s.Mode == ModeProcess {
		return nil
	}
	if s.Endpoint == "" {
		return fmt.Errorf("API endpoint URL is required")
	}
	if s.AccessKey == "" {
		return fmt.Errorf("API access key is required")
	}
	if s.SecretKey == "" {
		return fmt.Errorf("API secret key is required")
	}
	return nil
}
