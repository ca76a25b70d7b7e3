package widget

import (
	"github.com/vasishthabirari72/currency-convertor/internal/currency"
)

// Severity selects the colour of the status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Selector is what one currency dropdown currently shows.
type Selector struct {
	Code    string
	Region  string
	FlagURL string
	FlagAlt string
	Name    string
}

func newSelector(code string) Selector {
	code = currency.Normalize(code)
	region, _ := currency.Lookup(code)
	return Selector{
		Code:    code,
		Region:  region,
		FlagURL: currency.FlagURL(region),
		FlagAlt: currency.FlagAlt(region),
		Name:    code,
	}
}

// State is the whole UI of the widget. Views receive copies of it.
type State struct {
	Source            Selector
	Target            Selector
	SourceAmount      string
	DestinationAmount string
	Message           string
	Severity          Severity
	TriggerDisabled   bool
}

const (
	messageConverting    = "Converting..."
	messageKeyNotPresent = "API key not configured. Check .env file"
)
