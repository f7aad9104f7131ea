package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN (PostgreSQL) or file path (SQLite)
//	-k string   storage backend: postgres, sqlite or memory
//	-s string   JWT HMAC secret key
//	-m int      max upload size, bytes
//	-x string   classifier endpoint URL (empty selects heuristic)
//	-t int      classifier timeout, seconds
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled by
// the JSON loader.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-s", "-m", "-x", "-t", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (postgres|sqlite|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Int64Var(&config.MaxFileSizeBytes, "m", config.MaxFileSizeBytes, "max upload size in bytes")
	fs.StringVar(&config.ClassifierEndpoint, "x", config.ClassifierEndpoint, "classifier endpoint URL")

	classifierTimeout := fs.Int("t", int(config.ClassifierTimeout.Seconds()), "classifier timeout (in seconds)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ClassifierTimeout = time.Duration(*classifierTimeout) * time.Second
}
