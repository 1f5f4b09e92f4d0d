package detection_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/image/bmp"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
	"github.com/LeonardoBeccarini/smartagri/internal/services/detection"
	"github.com/LeonardoBeccarini/smartagri/pkg/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedPicker int

func (p fixedPicker) IntN(int) int { return int(p) }

func leafImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newClassifier(t *testing.T, picker detection.Picker) (*detection.Classifier, clockwork.FakeClock, *detection.Metrics) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	metrics := detection.NewMetrics(prometheus.NewRegistry())
	c := detection.NewClassifier(detection.Config{Delay: detection.DefaultDelay}, picker, schedule.New(clock),
		detection.WithMetrics(metrics))
	return c, clock, metrics
}

func TestDefaultCatalog(t *testing.T) {
	catalog := detection.DefaultCatalog()
	require.Len(t, catalog, 3)

	assert.Equal(t, entities.DiagnosisResult{
		Condition:  "Healthy Crop",
		Confidence: 92,
		Severity:   "None",
		Treatment:  "Continue current care routine. Monitor regularly for any changes.",
		Prevention: "Maintain proper watering schedule and ensure good air circulation.",
		Status:     entities.DiagnosisHealthy,
	}, catalog[0])
	assert.Equal(t, "Leaf Spot Disease", catalog[1].Condition)
	assert.Equal(t, 87, catalog[1].Confidence)
	assert.Equal(t, entities.DiagnosisDisease, catalog[1].Status)
	assert.Equal(t, "Nutrient Deficiency", catalog[2].Condition)
	assert.Equal(t, "Mild", catalog[2].Severity)
	assert.Equal(t, entities.DiagnosisWarning, catalog[2].Status)
}

func TestLoadCatalogRejectsBadEntries(t *testing.T) {
	_, err := detection.LoadCatalog([]byte("[]"))
	assert.ErrorIs(t, err, detection.ErrEmptyCatalog)

	_, err = detection.LoadCatalog([]byte("- condition: X\n  confidence: 140\n  status: healthy\n"))
	assert.ErrorContains(t, err, "out of range")

	_, err = detection.LoadCatalog([]byte("- condition: X\n  confidence: 50\n  status: dying\n"))
	assert.ErrorContains(t, err, "unknown status")

	_, err = detection.LoadCatalog([]byte("{not: [valid"))
	assert.Error(t, err)
}

func TestSelectImageFormats(t *testing.T) {
	c, _, _ := newClassifier(t, fixedPicker(0))

	img, err := c.SelectImage("leaf.png", leafImage(t))
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 6, img.Height)

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White}), nil))
	img, err = c.SelectImage("leaf.gif", gifBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "gif", img.Format)

	var bmpBuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpBuf, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	img, err = c.SelectImage("leaf.bmp", bmpBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "bmp", img.Format)

	current, ok := c.Image()
	require.True(t, ok)
	assert.Equal(t, "leaf.bmp", current.Name)
}

func TestSelectImageRejectsNonImages(t *testing.T) {
	c, _, _ := newClassifier(t, fixedPicker(0))
	_, err := c.SelectImage("leaf.png", leafImage(t))
	require.NoError(t, err)

	_, err = c.SelectImage("notes.txt", []byte("plain text, not a picture"))
	assert.ErrorIs(t, err, detection.ErrNotImage)

	_, err = c.SelectImage("empty.png", nil)
	assert.ErrorIs(t, err, detection.ErrNoImage)

	current, ok := c.Image()
	require.True(t, ok)
	assert.Equal(t, "leaf.png", current.Name, "rejected files keep the previous selection")
}

func TestAnalyzeWithoutImageIsNoop(t *testing.T) {
	c, _, metrics := newClassifier(t, fixedPicker(0))
	_, ok := c.Analyze()
	assert.False(t, ok)
	assert.False(t, c.Analyzing())
	assert.Zero(t, testutil.ToFloat64(metrics.Started))
}

func TestAnalyzeCompletesAfterDelay(t *testing.T) {
	c, clock, metrics := newClassifier(t, fixedPicker(1))
	events := make(chan messages.DiagnosisCompleted, 1)
	c.OnComplete(func(ev messages.DiagnosisCompleted) { events <- ev })

	_, err := c.SelectImage("leaf.png", leafImage(t))
	require.NoError(t, err)

	job, ok := c.Analyze()
	require.True(t, ok)
	assert.NotEmpty(t, job)
	assert.True(t, c.Analyzing())

	_, again := c.Analyze()
	assert.False(t, again, "second analyze while one is running")

	clock.Advance(2 * time.Second)
	assert.Never(t, func() bool { return !c.Analyzing() }, 50*time.Millisecond, 5*time.Millisecond)
	_, has := c.Result()
	assert.False(t, has)

	clock.Advance(time.Second)
	c.Wait()

	assert.False(t, c.Analyzing())
	res, has := c.Result()
	require.True(t, has)
	assert.Equal(t, "Leaf Spot Disease", res.Condition)
	assert.Equal(t, entities.BandCritical, res.Status.Band())

	ev := <-events
	assert.Equal(t, job, ev.JobID)
	assert.Equal(t, "leaf.png", ev.ImageName)
	assert.Equal(t, res, ev.Result)
	assert.GreaterOrEqual(t, ev.Timestamp.Sub(ev.StartedAt), 3*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Started))
	assert.Zero(t, testutil.ToFloat64(metrics.InFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Results.WithLabelValues("disease")))
}

func TestSelectImageClearsResult(t *testing.T) {
	c, clock, _ := newClassifier(t, fixedPicker(0))
	_, err := c.SelectImage("a.png", leafImage(t))
	require.NoError(t, err)
	_, ok := c.Analyze()
	require.True(t, ok)
	clock.Advance(3 * time.Second)
	c.Wait()
	_, has := c.Result()
	require.True(t, has)

	_, err = c.SelectImage("b.png", leafImage(t))
	require.NoError(t, err)
	_, has = c.Result()
	assert.False(t, has)
}

func TestResultAlwaysFromCatalog(t *testing.T) {
	c, clock, _ := newClassifier(t, detection.NewPicker(2024))
	_, err := c.SelectImage("leaf.png", leafImage(t))
	require.NoError(t, err)

	catalog := detection.DefaultCatalog()
	counts := make(map[string]int)
	const runs = 300
	for i := 0; i < runs; i++ {
		_, ok := c.Analyze()
		require.True(t, ok)
		clock.Advance(3 * time.Second)
		c.Wait()
		res, has := c.Result()
		require.True(t, has)
		assert.Contains(t, catalog, res)
		counts[res.Condition]++
	}
	require.Len(t, counts, 3)
	for cond, n := range counts {
		assert.InDeltaf(t, runs/3, n, 40, "%s picked %d times", cond, n)
	}
}

func TestClassifyReadsFile(t *testing.T) {
	c, clock, _ := newClassifier(t, fixedPicker(2))
	path := filepath.Join(t.TempDir(), "crop.png")
	require.NoError(t, os.WriteFile(path, leafImage(t), 0o600))

	name, data, err := detection.ReadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, "crop.png", name)

	done := make(chan entities.DiagnosisResult, 1)
	go func() {
		res, err := c.Classify(context.Background(), name, data)
		assert.NoError(t, err)
		done <- res
	}()

	require.Eventually(t, c.Analyzing, time.Second, 5*time.Millisecond)
	clock.Advance(3 * time.Second)

	select {
	case res := <-done:
		assert.Equal(t, "Nutrient Deficiency", res.Condition)
		assert.Equal(t, "Detected: Nutrient Deficiency with 78% confidence", detection.Notice(res))
	case <-time.After(2 * time.Second):
		t.Fatal("classify did not return")
	}
}

func TestClassifyContextCancelled(t *testing.T) {
	c, clock, _ := newClassifier(t, fixedPicker(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, "leaf.png", leafImage(t))
	assert.True(t, errors.Is(err, context.Canceled))

	// the analysis still completes
	clock.Advance(3 * time.Second)
	c.Wait()
	_, has := c.Result()
	assert.True(t, has)
}

func TestReadImageFileMissing(t *testing.T) {
	_, _, err := detection.ReadImageFile("")
	assert.ErrorIs(t, err, detection.ErrNoImage)

	_, _, err = detection.ReadImageFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
