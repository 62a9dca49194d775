package gcppubsub

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/pubsub"
)

func GetGCPProjectID() string {
	// Get your GCP Project ID from an environment variable or hardcode it
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		log.Fatal("GCP_PROJECT_ID environment variable must be set.")
	}
	return projectID
}

// NewPubSubClient creates a Pub/Sub client for the configured project.
func NewPubSubClient(ctx context.Context, projectID string) (*pubsub.Client, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}
