package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/solindex/trending-data/internal/config"
	"github.com/solindex/trending-data/internal/model"
)

func newTestPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	p := NewPublisher(config.FeedConfig{
		Addr:    mr.Addr(),
		Channel: "trending:updates",
	}, nil)
	t.Cleanup(func() { p.Close() })

	return p, mr
}

func TestPublisher_Publish(t *testing.T) {
	p, mr := newTestPublisher(t)

	set := model.TrendingSet{
		{Address: "so11111", Symbol: "SOL", Volume24h: 9000},
	}
	if err := p.Publish(context.Background(), set); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	raw, err := mr.Get("trending:latest")
	if err != nil {
		t.Fatalf("get latest key: %v", err)
	}

	var got model.TrendingSet
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("decode latest key: %v", err)
	}
	if len(got) != 1 || got[0].Address != "so11111" {
		t.Errorf("latest = %+v, want one SOL snapshot", got)
	}
}

func TestPublisher_PublishNilSet(t *testing.T) {
	p, mr := newTestPublisher(t)

	if err := p.Publish(context.Background(), nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	raw, err := mr.Get("trending:latest")
	if err != nil {
		t.Fatalf("get latest key: %v", err)
	}
	if raw != "[]" {
		t.Errorf("latest = %q, want empty array", raw)
	}
}

func TestPublisher_ConsumeTrendingSet(t *testing.T) {
	p, mr := newTestPublisher(t)

	p.ConsumeTrendingSet(model.TrendingSet{{Address: "abc"}})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mr.Exists("trending:latest") {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("latest key never written")
}
