// Package widget is the session controller: it attaches the trigger and
// modal to the host page, renders suggestions, and runs the submit
// procedure that feeds the assistant client and the transcript.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"dale-assistant/internal/domain"
	"dale-assistant/internal/page"
	"dale-assistant/internal/pagecontext"
	"dale-assistant/internal/suggestions"
	"dale-assistant/internal/transcript"
)

// State is the modal visibility.
type State int

const (
	Hidden State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "hidden"
}

// Asker sends one prompt to the assistant.
type Asker interface {
	Ask(ctx context.Context, prompt string, dctx domain.ContextDescriptor, history []domain.ChatMessage) (domain.AssistantReply, error)
}

// Controller owns the widget state for one page.
type Controller struct {
	doc      *page.Document
	location pagecontext.Location
	contexts *pagecontext.Builder
	engine   *suggestions.Engine
	asker    Asker
	logger   *slog.Logger
	baseCtx  context.Context

	mu          sync.Mutex
	state       State
	log         *transcript.Log
	suggestions []string
	observers   []func(domain.ChatMessage)

	inflight sync.WaitGroup
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithContextBuilder(b *pagecontext.Builder) Option {
	return func(c *Controller) { c.contexts = b }
}

func WithSuggestionEngine(e *suggestions.Engine) Option {
	return func(c *Controller) { c.engine = e }
}

// WithBaseContext sets the context every turn's request runs under.
// Turns are never canceled by the controller itself.
func WithBaseContext(ctx context.Context) Option {
	return func(c *Controller) { c.baseCtx = ctx }
}

// New returns a Controller in the Hidden state. Nothing is attached until
// Attach is called.
func New(doc *page.Document, location pagecontext.Location, asker Asker, opts ...Option) (*Controller, error) {
	if doc == nil {
		return nil, errors.New("widget: document must not be nil")
	}
	if location == nil {
		return nil, errors.New("widget: location must not be nil")
	}
	if asker == nil {
		return nil, errors.New("widget: asker must not be nil")
	}
	c := &Controller{
		doc:      doc,
		location: location,
		asker:    asker,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.contexts == nil {
		c.contexts = pagecontext.NewBuilder()
	}
	if c.engine == nil {
		c.engine = suggestions.New()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.baseCtx == nil {
		c.baseCtx = context.Background()
	}
	return c, nil
}

// Document returns the host page.
func (c *Controller) Document() *page.Document { return c.doc }

// Attach adds the trigger to the page and binds it to Open. Calling it
// again is a no-op apart from rebinding the same handler. The modal is not
// created here; the first Open builds it.
func (c *Controller) Attach() {
	if c.doc.Ensure(TriggerID, triggerMarkup) {
		c.logger.Debug("widget trigger attached")
	}
	c.doc.On(TriggerID, c.Open)
}

// ensureModal attaches the modal once and returns the transcript bound to
// its log element.
func (c *Controller) ensureModal() *transcript.Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.log != nil {
		return c.log
	}
	if c.doc.Ensure(ModalID, modalMarkup) {
		c.logger.Debug("widget modal attached")
	}
	c.doc.On(CloseID, c.Close)
	c.doc.On(SendID, func() { c.SendFromInput() })

	log, err := transcript.New(c.doc.Container(LogID), c.logger)
	if err != nil {
		// Container is never nil here.
		panic(err)
	}
	for _, fn := range c.observers {
		log.OnAppend(fn)
	}
	c.log = log
	return log
}

// Open shows the modal with suggestions for the current page.
func (c *Controller) Open() {
	c.ensureModal()
	c.renderSuggestions()
	c.doc.RemoveClass(ModalID, hiddenClass)
	c.setState(Open)
}

// Close hides the modal. The transcript is kept.
func (c *Controller) Close() {
	c.doc.AddClass(ModalID, hiddenClass)
	c.setState(Hidden)
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	if prev != s {
		c.logger.Debug("widget state changed", "from", prev, "to", s)
	}
}

// State returns the current visibility.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) renderSuggestions() {
	dctx := c.contexts.Build(c.location)
	list := c.engine.Suggestions(dctx)

	if err := c.doc.SetChildren(SuggestionsID, ""); err != nil {
		c.logger.Error("suggestions container missing", "err", err)
		return
	}
	for i, text := range list {
		id := SuggestionID(i)
		if err := c.doc.AppendElement(SuggestionsID, "button", id, suggestionClass, text); err != nil {
			c.logger.Error("render suggestion failed", "err", err)
			continue
		}
		prompt := text
		c.doc.On(id, func() { c.submit(prompt, false) })
	}

	c.mu.Lock()
	c.suggestions = list
	c.mu.Unlock()
}

// Suggestions returns the prompts rendered by the last Open.
func (c *Controller) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.suggestions...)
}

// SendFromInput submits the current input value. It reports whether a turn
// was started.
func (c *Controller) SendFromInput() bool {
	return c.submit(c.doc.Value(InputID), true)
}

// ActivateSuggestion clicks the i-th suggestion button.
func (c *Controller) ActivateSuggestion(i int) bool {
	return c.doc.Click(SuggestionID(i))
}

// Submit runs the submit procedure for prompt without touching the input.
func (c *Controller) Submit(prompt string) bool {
	return c.submit(prompt, false)
}

// submit echoes the prompt synchronously and then asks the assistant on its
// own goroutine. Blank prompts do nothing.
func (c *Controller) submit(raw string, fromInput bool) bool {
	prompt := strings.TrimSpace(raw)
	if prompt == "" {
		return false
	}
	log := c.ensureModal()
	log.Append(domain.ChatMessage{Text: prompt, Mine: true})
	if fromInput {
		c.doc.SetValue(InputID, "")
	}

	c.inflight.Add(1)
	go c.converse(log, prompt)
	return true
}

func (c *Controller) converse(log *transcript.Log, prompt string) {
	defer c.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("assistant turn panicked", "panic", r)
			log.Append(domain.ChatMessage{Text: errorText(fmt.Errorf("%v", r))})
		}
	}()

	dctx := c.contexts.Build(c.location)
	reply, err := c.asker.Ask(c.baseCtx, prompt, dctx, nil)
	if err != nil {
		c.logger.Info("assistant turn failed", "page", dctx.Page, "err", err)
		log.Append(domain.ChatMessage{Text: errorText(err)})
		return
	}
	log.Append(domain.ChatMessage{Text: reply.Reply})
}

func errorText(err error) string {
	return "Error: " + err.Error()
}

// Ask calls the assistant directly, bypassing the modal and transcript.
func (c *Controller) Ask(ctx context.Context, prompt string, dctx domain.ContextDescriptor, history []domain.ChatMessage) (domain.AssistantReply, error) {
	return c.asker.Ask(ctx, prompt, dctx, history)
}

// Wait blocks until every started turn has rendered its outcome.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// OnAppend registers fn to observe transcript appends.
func (c *Controller) OnAppend(fn func(domain.ChatMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
	if c.log != nil {
		c.log.OnAppend(fn)
	}
}

// Messages returns the transcript so far; nil before the modal exists.
func (c *Controller) Messages() []domain.ChatMessage {
	c.mu.Lock()
	log := c.log
	c.mu.Unlock()
	if log == nil {
		return nil
	}
	return log.Messages()
}
