package mongolog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRecordSetsTimestampOnce(t *testing.T) {
	before := time.Now().UTC()
	rec := newRecord("app")
	after := time.Now().UTC()

	require.False(t, rec.Timestamp.Before(before))
	require.False(t, rec.Timestamp.After(after))
	require.Equal(t, "app", rec.Application)
	require.Empty(t, rec.Messages)
	require.Empty(t, rec.Metadata)
}

func TestRecordAppendCreatesBuckets(t *testing.T) {
	rec := newRecord("app")
	rec.append(SeverityInfo, "one")
	rec.append(SeverityInfo, "two")
	rec.append(SeverityError, "boom")

	require.Equal(t, []string{"one", "two"}, rec.Messages["info"])
	require.Equal(t, []string{"boom"}, rec.Messages["error"])
	require.NotContains(t, rec.Messages, "debug")
}

func TestRecordMergeMetadata(t *testing.T) {
	rec := newRecord("app")
	rec.mergeMetadata(map[string]any{"a": 1, "b": "x"})
	rec.mergeMetadata(map[string]any{"a": 2})

	require.Equal(t, 2, rec.Metadata["a"])
	require.Equal(t, "x", rec.Metadata["b"])
}

func TestRecordMergeMetadataSkipsReservedKeys(t *testing.T) {
	rec := newRecord("app")
	rec.mergeMetadata(map[string]any{
		"timestamp":   "fake",
		"application": "fake",
		"messages":    "fake",
		"ok":          true,
	})

	require.Len(t, rec.Metadata, 1)
	require.Equal(t, true, rec.Metadata["ok"])
}

func TestRecordDocumentFlattensMetadata(t *testing.T) {
	rec := newRecord("app")
	rec.append(SeverityDebug, "hello")
	rec.mergeMetadata(map[string]any{"request_id": "r-1", "attempt": 3})

	doc := rec.document()
	require.Equal(t, "app", doc[fieldApplication])
	require.Equal(t, rec.Timestamp, doc[fieldTimestamp])
	require.Equal(t, "r-1", doc["request_id"])
	require.Equal(t, int64(3), doc["attempt"])

	msgs, ok := doc[fieldMessages].(map[string]any)
	require.True(t, ok)
	require.Equal(t, []any{"hello"}, msgs["debug"])
}
