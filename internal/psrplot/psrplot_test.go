package psrplot

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSamples(t *testing.T) {
	rec := NewRecorder(8.0)
	first := uuid.New()
	second := uuid.New()

	rec.Add(first, Sample{Frame: 0, Confidence: 30})
	rec.Add(second, Sample{Frame: 0, Confidence: 12})
	rec.Add(first, Sample{Frame: 1, Confidence: 4, Lost: true})

	assert.Equal(t, []uuid.UUID{first, second}, rec.Targets())
	assert.Len(t, rec.Samples(first), 2)
	assert.Equal(t, 0.5, rec.LostRatio(first))
	assert.Equal(t, 0.0, rec.LostRatio(second))
	assert.Equal(t, 0.0, rec.LostRatio(uuid.New()))

	samples := rec.Samples(first)
	samples[0].Confidence = -1
	assert.Equal(t, 30.0, rec.Samples(first)[0].Confidence, "Samples must return a copy")
}

func TestRecorderConcurrentAdd(t *testing.T) {
	rec := NewRecorder(8.0)
	id := uuid.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(frame int) {
			defer wg.Done()
			rec.Add(id, Sample{Frame: frame, Confidence: float64(frame)})
		}(i)
	}
	wg.Wait()
	assert.Len(t, rec.Samples(id), 50)
	assert.Len(t, rec.Targets(), 1)
}

func TestRecorderSave(t *testing.T) {
	rec := NewRecorder(8.0)
	id := uuid.New()
	for frame := 0; frame < 20; frame++ {
		conf := 25.0
		if frame >= 10 && frame < 14 {
			conf = 3.0
		}
		rec.Add(id, Sample{Frame: frame, Confidence: conf, Lost: conf < 8})
	}

	path := filepath.Join(t.TempDir(), "psr.png")
	require.NoError(t, rec.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRecorderPlotEmpty(t *testing.T) {
	rec := NewRecorder(8.0)
	p, err := rec.Plot()
	require.NoError(t, err)
	require.NotNil(t, p)
}
