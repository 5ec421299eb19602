// Package mongodb implements MongoDB adapters for the application.
package mongodb

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spendscan/core/port/out"
)

// =============================================================================
// MongoDB Document Text Adapter
// =============================================================================

const (
	collectionDocumentTexts = "document_texts"

	// Compression threshold - only compress if content is larger than this
	compressionThreshold = 1024 // 1KB

	defaultRetentionDays = 90
)

// DocumentTextAdapter implements out.DocumentArchive using MongoDB. It
// keeps the full extracted text of parsed documents, since API
// responses only carry a truncated excerpt.
type DocumentTextAdapter struct {
	db            *mongo.Database
	collection    *mongo.Collection
	retentionDays int
}

// NewDocumentTextAdapter creates a new MongoDB document text adapter.
func NewDocumentTextAdapter(db *mongo.Database) *DocumentTextAdapter {
	return &DocumentTextAdapter{
		db:            db,
		collection:    db.Collection(collectionDocumentTexts),
		retentionDays: defaultRetentionDays,
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *DocumentTextAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "message_id", Value: 1},
				{Key: "attachment_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// =============================================================================
// Document Model
// =============================================================================

type documentTextDocument struct {
	MessageID    string `bson:"message_id"`
	AttachmentID string `bson:"attachment_id"`

	// Content (potentially compressed)
	Text         []byte `bson:"text"`
	IsCompressed bool   `bson:"is_compressed"`

	OriginalSize int64 `bson:"original_size"`

	ArchivedAt time.Time `bson:"archived_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

// =============================================================================
// Operations
// =============================================================================

// SaveText upserts the extracted text for one attachment.
func (a *DocumentTextAdapter) SaveText(ctx context.Context, messageID, attachmentID, text string) error {
	textBytes := []byte(text)
	originalSize := int64(len(textBytes))

	isCompressed := false
	if originalSize > compressionThreshold {
		compressed, err := compress(textBytes)
		if err != nil {
			return fmt.Errorf("failed to compress document text: %w", err)
		}
		textBytes = compressed
		isCompressed = true
	}

	now := time.Now()
	doc := documentTextDocument{
		MessageID:    messageID,
		AttachmentID: attachmentID,
		Text:         textBytes,
		IsCompressed: isCompressed,
		OriginalSize: originalSize,
		ArchivedAt:   now,
		ExpiresAt:    now.AddDate(0, 0, a.retentionDays),
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"message_id": messageID, "attachment_id": attachmentID}

	_, err := a.collection.ReplaceOne(ctx, filter, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save document text: %w", err)
	}
	return nil
}

// GetText retrieves the archived text. Returns an empty string when the
// entry does not exist or has expired.
func (a *DocumentTextAdapter) GetText(ctx context.Context, messageID, attachmentID string) (string, error) {
	var doc documentTextDocument
	filter := bson.M{"message_id": messageID, "attachment_id": attachmentID}

	err := a.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", fmt.Errorf("failed to get document text: %w", err)
	}

	textBytes := doc.Text
	if doc.IsCompressed {
		textBytes, err = decompress(doc.Text)
		if err != nil {
			return "", fmt.Errorf("failed to decompress document text: %w", err)
		}
	}
	return string(textBytes), nil
}

// DeleteText removes one archived text.
func (a *DocumentTextAdapter) DeleteText(ctx context.Context, messageID, attachmentID string) error {
	filter := bson.M{"message_id": messageID, "attachment_id": attachmentID}

	_, err := a.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete document text: %w", err)
	}
	return nil
}

// DeleteExpired deletes all expired entries. The TTL index handles this
// in the background; this is for forced cleanup.
func (a *DocumentTextAdapter) DeleteExpired(ctx context.Context) (int64, error) {
	filter := bson.M{"expires_at": bson.M{"$lt": time.Now()}}

	result, err := a.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired texts: %w", err)
	}
	return result.DeletedCount, nil
}

// =============================================================================
// Compression Helpers
// =============================================================================

func compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// =============================================================================
// Interface Compliance
// =============================================================================

var _ out.DocumentArchive = (*DocumentTextAdapter)(nil)
