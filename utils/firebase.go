package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	firebaseApp    *firebase.App
	firebaseClient *messaging.Client
	firebaseOnce   sync.Once
	firebaseErr    error
)

// InitFirebase initializes the Firebase Admin SDK and FCM client (singleton).
// Push notifications are optional: missing credentials disable FCM without
// failing startup.
func InitFirebase() error {
	firebaseOnce.Do(func() {
		ctx := context.Background()

		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = os.Getenv("FCM_CREDENTIALS_PATH")
		}
		if credentialsPath == "" {
			credentialsPath = "./serviceAccountKey.json"
		}

		projectID := os.Getenv("FCM_PROJECT_ID")

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			firebaseErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}

		if projectID == "" {
			firebaseErr = fmt.Errorf("FCM_PROJECT_ID is required for FCM")
			return
		}

		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID},
			option.WithCredentialsFile(credentialsPath))
		if err != nil {
			firebaseErr = fmt.Errorf("firebase app initialization failed: %v", err)
			return
		}
		firebaseApp = app

		fcmClient, err := app.Messaging(ctx)
		if err != nil {
			firebaseErr = fmt.Errorf("FCM client initialization failed: %v", err)
			return
		}

		log.Printf("✅ FCM client initialized for project %s", projectID)
		firebaseClient = fcmClient
	})

	return firebaseErr
}

// GetFCMClient returns the FCM client instance (nil when disabled)
func GetFCMClient() *messaging.Client {
	return firebaseClient
}

// IsFCMEnabled checks if FCM is available
func IsFCMEnabled() bool {
	return firebaseClient != nil
}

// GetInitError returns the initialization error if any
func GetInitError() error {
	return firebaseErr
}
