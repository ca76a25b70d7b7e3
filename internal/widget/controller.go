package widget

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/currency"
	"github.com/vasishthabirari72/currency-convertor/internal/model"
)

// Converter performs one upstream conversion.
type Converter interface {
	Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error)
	HasCredential() bool
}

// View displays the widget. Render is called with the controller lock
// held and must not call back into the Controller.
type View interface {
	Render(State)
}

// ViewFunc adapts a function to View.
type ViewFunc func(State)

func (f ViewFunc) Render(s State) { f(s) }

type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller owns the conversion workflow and the widget state.
//
// Every Convert call takes a sequence stamp, including calls rejected
// before the network. Only the newest call may write the outcome to the
// display; older completions are returned to their caller but not shown.
// The trigger stays disabled while any call is outstanding.
type Controller struct {
	mu        sync.Mutex
	converter Converter
	view      View
	logger    *zap.Logger

	state    State
	options  []string
	seq      uint64
	inFlight int
}

func New(converter Converter, view View, opts ...Option) *Controller {
	c := &Controller{
		converter: converter,
		view:      view,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize populates the selectors and selects the defaults.
func (c *Controller) Initialize(defaultSource, defaultTarget string) error {
	if !currency.Valid(defaultSource) {
		return fmt.Errorf("unknown source currency %q", defaultSource)
	}
	if !currency.Valid(defaultTarget) {
		return fmt.Errorf("unknown target currency %q", defaultTarget)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.options = currency.Codes()
	c.state.Source = newSelector(defaultSource)
	c.state.Target = newSelector(defaultTarget)
	c.state.Severity = SeverityInfo
	if !c.converter.HasCredential() {
		c.logger.Error("API key not found",
			zap.String("hint", "set FX_API_KEY in the environment or .env file"),
		)
		c.state.Message = messageKeyNotPresent
		c.state.Severity = SeverityError
	}
	c.apply()
	return nil
}

// Options returns the codes both selectors offer.
func (c *Controller) Options() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.options))
	copy(out, c.options)
	return out
}

// SelectSource is the change listener of the source selector.
func (c *Controller) SelectSource(code string) error {
	return c.selectCode(code, func(s *State, sel Selector) { s.Source = sel })
}

// SelectTarget is the change listener of the target selector.
func (c *Controller) SelectTarget(code string) error {
	return c.selectCode(code, func(s *State, sel Selector) { s.Target = sel })
}

func (c *Controller) selectCode(code string, set func(*State, Selector)) error {
	if !currency.Valid(code) {
		return fmt.Errorf("unknown currency %q", code)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	set(&c.state, newSelector(code))
	c.apply()
	return nil
}

// SetAmount stores the raw text of the source amount input.
func (c *Controller) SetAmount(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SourceAmount = text
}

// State returns a snapshot of the widget state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit is the submit control and the Enter key in the amount input.
func (c *Controller) Submit(ctx context.Context) (*model.ConversionResult, error) {
	return c.Convert(ctx)
}

// Load runs the page-load conversion when the amount input is pre-filled.
func (c *Controller) Load(ctx context.Context) (*model.ConversionResult, bool, error) {
	if _, ok := parseAmount(c.State().SourceAmount); !ok {
		return nil, false, nil
	}
	res, err := c.Convert(ctx)
	return res, true, err
}

// Convert validates the input and performs one conversion. The returned
// error is always a *model.Failure.
func (c *Controller) Convert(ctx context.Context) (res *model.ConversionResult, err error) {
	c.mu.Lock()
	if !c.converter.HasCredential() {
		f := model.NewFailure(model.MissingCredential, nil)
		c.seq++
		c.fail(f)
		c.apply()
		c.mu.Unlock()
		return nil, f
	}

	amount, ok := parseAmount(c.state.SourceAmount)
	if !ok {
		f := model.NewFailure(model.InvalidInput, fmt.Errorf("invalid amount %q", c.state.SourceAmount))
		c.seq++
		c.fail(f)
		c.apply()
		c.mu.Unlock()
		return nil, f
	}

	req := model.ConversionRequest{
		Source: c.state.Source.Code,
		Target: c.state.Target.Code,
		Amount: amount,
	}
	c.seq++
	stamp := c.seq
	c.inFlight++
	c.state.Message = messageConverting
	c.state.Severity = SeverityInfo
	c.state.TriggerDisabled = true
	c.apply()
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, model.NewFailure(model.Unknown, fmt.Errorf("converter panic: %v", r))
		}
		if err != nil {
			err = model.AsFailure(err)
		} else if res == nil {
			err = model.NewFailure(model.MalformedResponse, fmt.Errorf("empty conversion result"))
		}
		c.finish(stamp, res, err)
	}()

	return c.converter.Convert(ctx, req)
}

func (c *Controller) finish(stamp uint64, res *model.ConversionResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight--
	if c.inFlight == 0 {
		c.state.TriggerDisabled = false
	}

	if stamp != c.seq {
		c.logger.Debug("Discarding stale conversion outcome",
			zap.Uint64("stamp", stamp),
			zap.Uint64("latest", c.seq),
		)
		c.apply()
		return
	}

	if err != nil {
		c.fail(model.AsFailure(err))
	} else {
		c.state.DestinationAmount = res.Formatted()
		c.state.Message = res.Message()
		c.state.Severity = SeveritySuccess
	}
	c.apply()
}

// Swap exchanges the two selected currencies and converts again when the
// amount input holds a positive number.
func (c *Controller) Swap(ctx context.Context) (*model.ConversionResult, bool, error) {
	c.mu.Lock()
	c.state.Source, c.state.Target = newSelector(c.state.Target.Code), newSelector(c.state.Source.Code)
	c.apply()
	_, positive := parseAmount(c.state.SourceAmount)
	c.mu.Unlock()

	if !positive {
		return nil, false, nil
	}
	res, err := c.Convert(ctx)
	return res, true, err
}

// fail must be called with c.mu held.
func (c *Controller) fail(f *model.Failure) {
	c.logger.Error("API Error",
		zap.String("kind", f.Kind.String()),
		zap.String("from", c.state.Source.Code),
		zap.String("to", c.state.Target.Code),
		zap.Error(f),
	)
	c.state.DestinationAmount = ""
	c.state.Message = f.Message
	c.state.Severity = SeverityError
}

// apply must be called with c.mu held.
func (c *Controller) apply() {
	if c.view != nil {
		c.view.Render(c.state)
	}
}

// leadingNumber is the decimal prefix of the amount input; "12abc" reads as 12.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

func parseAmount(text string) (float64, bool) {
	prefix := leadingNumber.FindString(strings.TrimSpace(text))
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
