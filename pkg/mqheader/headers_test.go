package mqheader_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/stock-assistant/pkg/correlationid"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/mqheader"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-1")

	headers := mqheader.BuildHeaders(ctx)
	assert.Equal(t, "corr-1", headers[correlationid.Header])

	rec := &kgo.Record{}
	for k, v := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	got, ok := correlationid.FromContext(mqheader.ExtractContextFromRecord(context.Background(), rec))
	assert.True(t, ok)
	assert.Equal(t, "corr-1", got)
}

func TestExtractWithoutHeaders(t *testing.T) {
	_, ok := correlationid.FromContext(mqheader.ExtractContextFromRecord(context.Background(), &kgo.Record{}))
	assert.False(t, ok)
}
