package mq

import (
	"testing"

	redis "github.com/redis/go-redis/v9"
)

func TestNew_Drivers(t *testing.T) {
	if _, ok := New(Config{}, nil).(*Noop); !ok {
		t.Fatalf("empty driver must be noop")
	}
	if _, ok := New(Config{Driver: "memory"}, nil).(*Memory); !ok {
		t.Fatalf("expected memory queue")
	}
	if _, ok := New(Config{Driver: "kafka"}, nil).(*Noop); !ok {
		t.Fatalf("kafka without brokers must fall back to noop")
	}
	if _, ok := New(Config{Driver: "kafka", KafkaBrokers: []string{" localhost:9092 "}}, nil).(*kafkaQueue); !ok {
		t.Fatalf("expected kafka queue")
	}
	if _, ok := New(Config{Driver: "redis", RedisURL: "::bad"}, nil).(*Noop); !ok {
		t.Fatalf("bad redis url must fall back to noop")
	}
	if _, ok := New(Config{Driver: "Redis", RedisURL: "redis://localhost:6379/0"}, nil).(*redisQueue); !ok {
		t.Fatalf("expected redis queue")
	}
	if _, ok := New(Config{Driver: "carrier-pigeon"}, nil).(*Noop); !ok {
		t.Fatalf("unknown driver must fall back to noop")
	}
}

func TestMemory_KeepsRecentCopies(t *testing.T) {
	m := NewMemory(2)
	for _, name := range []string{EventSearch, EventGameOpen, EventGameClose} {
		evt := NewEvent(name, "1", "q", "c")
		if err := m.PublishEvent(evt); err != nil {
			t.Fatal(err)
		}
		evt["event"] = "mutated"
	}
	got := m.Events()
	if len(got) != 2 || got[0]["event"] != EventGameOpen || got[1]["event"] != EventGameClose {
		t.Fatalf("unexpected events %#v", got)
	}
}

func TestNewEvent_Fields(t *testing.T) {
	evt := NewEvent(EventGameReload, "7", "snake", "conn-1")
	for _, k := range []string{"event", "game_id", "query", "conn_id", "ts"} {
		if _, ok := evt[k]; !ok {
			t.Fatalf("missing field %s", k)
		}
	}
	if evt["game_id"] != "7" || evt["conn_id"] != "conn-1" {
		t.Fatalf("unexpected body %#v", evt)
	}
}

func TestRedis_StreamDefaults(t *testing.T) {
	q, err := NewRedis("redis://localhost:6379/0", "", 100, true)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()
	rq := q.(*redisQueue)
	if rq.stream != "arcadehub:events" || rq.maxLen != 100 || !rq.maxLenApprox {
		t.Fatalf("unexpected redis queue %#v", rq)
	}
	_ = newRedisClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "s", 0, false).Close()
}
