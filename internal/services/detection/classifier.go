// Package detection holds the state of the disease detection panel and the
// mock classifier behind it.
package detection

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
	"github.com/LeonardoBeccarini/smartagri/pkg/schedule"
)

// DefaultDelay is how long a mock analysis takes.
const DefaultDelay = 3 * time.Second

// Picker chooses a catalog index in [0, n).
type Picker interface {
	IntN(n int) int
}

// NewPicker returns a PCG based Picker. Seed 0 seeds from the current time.
func NewPicker(seed uint64) Picker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}

type Config struct {
	Delay time.Duration
}

// Classifier fakes a crop disease model: after a fixed delay it returns one
// catalog entry picked uniformly at random, whatever the image shows.
type Classifier struct {
	mu        sync.Mutex
	delay     time.Duration
	catalog   []entities.DiagnosisResult
	picker    Picker
	scheduler *schedule.Scheduler
	image     *Image
	result    *entities.DiagnosisResult
	analyzing bool
	jobID     string
	task      *schedule.Task
	handlers  []func(messages.DiagnosisCompleted)
	metrics   *Metrics
	logger    *slog.Logger
}

// Option customises a Classifier.
type Option func(*Classifier)

func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(catalog []entities.DiagnosisResult) Option {
	return func(c *Classifier) {
		if len(catalog) > 0 {
			c.catalog = catalog
		}
	}
}

func NewClassifier(cfg Config, picker Picker, sched *schedule.Scheduler, opts ...Option) *Classifier {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if picker == nil {
		picker = NewPicker(0)
	}
	if sched == nil {
		sched = schedule.New(nil)
	}
	c := &Classifier{
		delay:     cfg.Delay,
		catalog:   DefaultCatalog(),
		picker:    picker,
		scheduler: sched,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "detection")
	return c
}

// OnComplete registers a handler called when an analysis finishes.
func (c *Classifier) OnComplete(handler func(messages.DiagnosisCompleted)) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	c.handlers = append(c.handlers, handler)
	c.mu.Unlock()
}

// SelectImage loads a new picture into the panel and clears the previous
// result. Payloads that are not images leave the panel untouched.
func (c *Classifier) SelectImage(name string, data []byte) (Image, error) {
	img, err := inspectImage(name, data)
	if err != nil {
		c.logger.Debug("image rejected", "name", name, "error", err)
		return Image{}, err
	}
	c.mu.Lock()
	c.image = &img
	c.result = nil
	c.mu.Unlock()

	c.logger.Info("image selected", "name", img.Name, "format", img.Format, "width", img.Width, "height", img.Height)
	return img, nil
}

// Image returns the selected picture.
func (c *Classifier) Image() (Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.image == nil {
		return Image{}, false
	}
	return *c.image, true
}

// Analyze starts a mock analysis of the selected image and returns its job
// id. It returns false without doing anything when no image is selected or
// an analysis is already running. A started analysis always completes.
func (c *Classifier) Analyze() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.image == nil || c.analyzing {
		return "", false
	}
	c.analyzing = true
	c.jobID = uuid.NewString()
	job, name, started := c.jobID, c.image.Name, c.scheduler.Clock().Now()
	c.task = c.scheduler.After(c.delay, func(now time.Time) { c.complete(job, name, started, now) })
	c.metrics.started()

	c.logger.Info("analysis started", "job_id", job, "image", name, "delay", c.delay)
	return job, true
}

func (c *Classifier) complete(job, name string, started, now time.Time) {
	c.mu.Lock()
	res := c.catalog[c.pick()]
	c.result = &res
	c.analyzing = false
	handlers := append([]func(messages.DiagnosisCompleted){}, c.handlers...)
	c.mu.Unlock()

	c.metrics.completed(res)
	c.logger.Info(Notice(res), "job_id", job, "status", string(res.Status))

	ev := messages.DiagnosisCompleted{
		JobID:     job,
		ImageName: name,
		Result:    res,
		StartedAt: started,
		Timestamp: now,
	}
	for _, h := range handlers {
		h(ev)
	}
}

// pick must be called with c.mu held.
func (c *Classifier) pick() int {
	i := c.picker.IntN(len(c.catalog))
	if i < 0 || i >= len(c.catalog) {
		return 0
	}
	return i
}

// Analyzing reports whether an analysis is in flight.
func (c *Classifier) Analyzing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analyzing
}

// Result returns the latest diagnosis, if any.
func (c *Classifier) Result() (entities.DiagnosisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return entities.DiagnosisResult{}, false
	}
	return *c.result, true
}

// Wait blocks until the analysis in flight, if any, has completed.
func (c *Classifier) Wait() {
	c.mu.Lock()
	task := c.task
	c.mu.Unlock()
	task.Wait()
}

// Classify selects the image, runs one analysis and waits for its result.
// Cancelling ctx stops the wait only; the analysis still completes.
func (c *Classifier) Classify(ctx context.Context, name string, data []byte) (entities.DiagnosisResult, error) {
	if _, err := c.SelectImage(name, data); err != nil {
		return entities.DiagnosisResult{}, err
	}
	if _, ok := c.Analyze(); !ok {
		// one is already running; its result is the one we will read
		c.logger.Debug("analysis already running, waiting for it")
	}
	c.mu.Lock()
	task := c.task
	c.mu.Unlock()

	select {
	case <-task.Done():
	case <-ctx.Done():
		return entities.DiagnosisResult{}, ctx.Err()
	}
	res, ok := c.Result()
	if !ok {
		return entities.DiagnosisResult{}, fmt.Errorf("analysis of %s produced no result", name)
	}
	return res, nil
}

// Notice is the one-line completion message shown to the user.
func Notice(r entities.DiagnosisResult) string {
	return fmt.Sprintf("Detected: %s with %d%% confidence", r.Condition, r.Confidence)
}
