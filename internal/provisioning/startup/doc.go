// Package startup resolves the startup script handed to the bootstrap VM.
//
// A script file next to the genesis executable takes precedence. When it
// does not exist the script is fetched from the configured URL, which may
// be http(s)://, s3:// or gs://. The payload is neither cached nor
// verified, and a failed fetch is not retried.
package startup
