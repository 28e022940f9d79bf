package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

const auditCollection = "auth_audit"

// MongoAuditRepository stores the append-only authentication audit trail.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Actor   string `bson:"actor,omitempty"`
	Action  string `bson:"action"`
	Subject string `bson:"subject,omitempty"`
	Detail  string `bson:"detail,omitempty"`
	At      int64  `bson:"at"`
}

func (r *MongoAuditRepository) Append(ctx context.Context, event ports.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEvent{
		Actor:   event.Actor,
		Action:  string(event.Action),
		Subject: event.Subject,
		Detail:  event.Detail,
		At:      event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first, up to limit.
func (r *MongoAuditRepository) ListRecent(ctx context.Context, limit int) ([]ports.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoAuditEvent
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	events := make([]ports.AuditEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, ports.AuditEvent{
			Actor:   d.Actor,
			Action:  domain.AuditAction(d.Action),
			Subject: d.Subject,
			Detail:  d.Detail,
			At:      unixToTime(d.At),
		})
	}
	return events, nil
}
