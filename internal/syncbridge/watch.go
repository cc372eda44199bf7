package syncbridge

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/pkg/model"
)

// Subscription polls the remote store until Unsubscribe is called.
// Unsubscribe is idempotent and waits for the poll loop to exit, so no
// callback can fire after it returns.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}

// WatchPatient delivers the target patient's document every time its
// last-updated stamp advances, until unsubscribed. A document that does not
// exist delivers nothing.
func (b *Bridge) WatchPatient(patientID string, fn func(model.PatientState)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		ticker := time.NewTicker(b.pollInterval)
		defer ticker.Stop()

		var lastSeen time.Time
		for {
			doc, err := b.fetchPatient(ctx, patientID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Warn("patient document poll failed",
					zap.Error(err),
					zap.String("patient_id", patientID),
				)
			} else if doc != nil && doc.LastUpdated.After(lastSeen) {
				lastSeen = doc.LastUpdated
				fn(doc.State)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	b.logger.Info("watching patient document", zap.String("patient_id", patientID))
	return sub, nil
}

// WatchNotifications delivers newly-added notification records for the given
// patient, most recent first, one at a time as they arrive. Records that
// existed before the subscription started are not delivered.
func (b *Bridge) WatchNotifications(patientID string, fn func(model.Notification)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		ticker := time.NewTicker(b.pollInterval)
		defer ticker.Stop()

		since := b.now().UTC()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			docs, err := b.fetchNotificationsSince(ctx, patientID, since)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Warn("notification feed poll failed",
					zap.Error(err),
					zap.String("patient_id", patientID),
				)
				continue
			}
			for _, doc := range docs {
				if doc.CreatedAt.After(since) {
					since = doc.CreatedAt
				}
				fn(model.Notification{
					ID:        doc.ID,
					PatientID: doc.PatientID,
					Title:     doc.Title,
					Body:      doc.Body,
					CreatedAt: doc.CreatedAt,
				})
			}
		}
	}()

	b.logger.Info("watching notification feed", zap.String("patient_id", patientID))
	return sub, nil
}

func (b *Bridge) fetchPatient(ctx context.Context, patientID string) (*patientDocument, error) {
	var doc patientDocument
	err := b.db.Collection(patientsCollection).
		FindOne(ctx, bson.M{"_id": patientID}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (b *Bridge) fetchNotificationsSince(ctx context.Context, patientID string, since time.Time) ([]notificationDocument, error) {
	cursor, err := b.db.Collection(notificationsCollection).Find(ctx,
		bson.M{
			"patient_id": patientID,
			"created_at": bson.M{"$gt": since},
		},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
