// Package syncbridge replicates patient state through a remote document
// store. Patients push their full aggregate after every change; caregivers
// hold a standing subscription on the target patient's document and a feed
// of newly-added notification records.
package syncbridge

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/pkg/model"
)

const (
	patientsCollection      = "patients"
	notificationsCollection = "notifications"
	tokensCollection        = "device_tokens"
)

// patientDocument is the remote replica of one patient's aggregate, keyed by
// the patient identifier and stamped on every upsert.
type patientDocument struct {
	ID          string             `bson:"_id"`
	State       model.PatientState `bson:"state"`
	LastUpdated time.Time          `bson:"last_updated"`
}

// notificationDocument mirrors model.Notification in the remote store.
type notificationDocument struct {
	ID        string    `bson:"_id"`
	PatientID string    `bson:"patient_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"created_at"`
}

// Bridge is the MongoDB-backed sync bridge.
type Bridge struct {
	db           *mongo.Database
	pollInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// New connects to the remote document store and verifies the connection.
func New(ctx context.Context, uri, dbName string, pollInterval time.Duration, logger *zap.Logger) (*Bridge, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sync store: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping sync store: %w", err)
	}

	logger.Info("connected to sync store", zap.String("database", dbName))

	return &Bridge{
		db:           client.Database(dbName),
		pollInterval: pollInterval,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Close disconnects from the remote document store. Active subscriptions
// should be unsubscribed first.
func (b *Bridge) Close(ctx context.Context) error {
	if err := b.db.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from sync store: %w", err)
	}
	return nil
}

// Push upserts the full aggregate under the patient identifier, stamped with
// a last-updated timestamp. Callers treat failures as non-fatal.
func (b *Bridge) Push(ctx context.Context, patientID string, st model.PatientState) error {
	doc := patientDocument{
		ID:          patientID,
		State:       st,
		LastUpdated: b.now().UTC(),
	}

	_, err := b.db.Collection(patientsCollection).UpdateOne(ctx,
		bson.M{"_id": patientID},
		bson.M{"$set": bson.M{"state": doc.State, "last_updated": doc.LastUpdated}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to push patient document: %w", err)
	}
	return nil
}

// PublishNotification appends a notification record for a patient.
func (b *Bridge) PublishNotification(ctx context.Context, n model.Notification) error {
	doc := notificationDocument{
		ID:        n.ID,
		PatientID: n.PatientID,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = b.now().UTC()
	}

	if _, err := b.db.Collection(notificationsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// RegisterDeviceToken records a delivery token for push notifications. The
// token is not used beyond registration.
func (b *Bridge) RegisterDeviceToken(ctx context.Context, patientID, token string) error {
	_, err := b.db.Collection(tokensCollection).UpdateOne(ctx,
		bson.M{"_id": patientID},
		bson.M{"$set": bson.M{"token": token, "updated_at": b.now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}
