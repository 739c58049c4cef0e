// Package gcs reads startup payloads from Google Cloud Storage.
package gcs
