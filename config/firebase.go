package config

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var FirebaseApp *firebase.App

// firebaseCredentials prefers FIREBASE_CREDENTIALS_BASE64 over a
// GOOGLE_APPLICATION_CREDENTIALS file path
func firebaseCredentials() (option.ClientOption, bool) {
	if b64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); b64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			log.Printf("Error decoding base64 Firebase credentials: %v", err)
			return nil, false
		}
		log.Printf("Using Firebase credentials from base64 environment variable")
		return option.WithCredentialsJSON(decoded), true
	}

	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		log.Printf("Using Firebase credentials file: %s", credFile)
		return option.WithCredentialsFile(credFile), true
	}

	return nil, false
}

// InitFirebase initializes the Firebase Admin SDK used for FCM push
// notifications. Missing credentials disable push, they do not stop the
// server.
func InitFirebase() {
	opt, ok := firebaseCredentials()
	if !ok {
		log.Printf("Firebase credentials not configured; push notifications disabled")
		return
	}

	cfg := &firebase.Config{ProjectID: os.Getenv("FIREBASE_PROJECT_ID")}
	app, err := firebase.NewApp(context.Background(), cfg, opt)
	if err != nil {
		log.Printf("error initializing firebase app: %v", err)
		return
	}
	FirebaseApp = app
}
