package events

import (
	"testing"
	"time"
)

func TestNewWriter(t *testing.T) {
	w := newWriter([]string{"kafka:9092"}, "landmarks")
	if w.Async {
		t.Error("writer is async")
	}
	if w.BatchTimeout <= 0 || 100*time.Millisecond < w.BatchTimeout {
		t.Errorf("batch timeout = %s", w.BatchTimeout)
	}
	if w.Topic != "landmarks" {
		t.Errorf("topic = %s", w.Topic)
	}
}

func TestWithWriter_DefaultTimeout(t *testing.T) {
	k := WithWriter(nil).(*kafkaPublisher)
	if k.timeout != DefaultPublishTimeout {
		t.Errorf("timeout = %s", k.timeout)
	}
}
