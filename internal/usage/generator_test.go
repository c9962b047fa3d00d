package usage

import (
	"testing"

	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
)

var spiky = model.Persona{Name: "Spiky Batch", BaseRate: 1.0, SpikeProb: 0.35, SpikeFactor: 4.0}

func TestNextSampleThreshold(t *testing.T) {
	seq := &random.Sequence{Values: []float64{0.10, 0.35, 0.34999, 0.9}}
	g := NewGenerator(seq)

	want := []float64{4.0, 1.0, 4.0, 1.0}
	for i, w := range want {
		if got := g.NextSample(spiky); got != w {
			t.Fatalf("sample %d: got %v want %v", i, got, w)
		}
	}
}

func TestNeverSpikesAtZeroProbability(t *testing.T) {
	p := model.Persona{Name: "flat", BaseRate: 2, SpikeProb: 0, SpikeFactor: 3}
	s := random.NewStream(3)
	for _, v := range NewGenerator(&s).GenerateHorizon(p, 500) {
		if v != 2 {
			t.Fatalf("unexpected sample %v", v)
		}
	}
}

func TestStreamingMatchesBatch(t *testing.T) {
	a := random.NewStream(2024)
	b := random.NewStream(2024)

	var streamed []float64
	for i := 0; i < 24; i++ {
		streamed = append(streamed, NewGenerator(&a).NextSample(spiky))
	}
	batch := NewGenerator(&b).GenerateHorizon(spiky, 24)

	for i := range batch {
		if streamed[i] != batch[i] {
			t.Fatalf("hour %d: streamed %v batch %v", i, streamed[i], batch[i])
		}
	}
}

func TestSpikeFrequencyApproximatesProbability(t *testing.T) {
	s := random.NewStream(11)
	series := NewGenerator(&s).GenerateHorizon(spiky, 20000)
	spikes := 0
	for _, v := range series {
		if v < 0 {
			t.Fatalf("negative sample %v", v)
		}
		if v > spiky.BaseRate {
			spikes++
		}
	}
	freq := float64(spikes) / float64(len(series))
	if freq < 0.32 || freq > 0.38 {
		t.Fatalf("spike frequency %.3f too far from 0.35", freq)
	}
}

func TestGenerateHorizonNonPositive(t *testing.T) {
	s := random.NewStream(1)
	if got := NewGenerator(&s).GenerateHorizon(spiky, 0); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
