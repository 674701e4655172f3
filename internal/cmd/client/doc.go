// Package client provides the `silt` command-line client.
//
// The CLI talks to the Silt HTTP endpoints to perform common topic
// operations from a terminal. It is primarily intended for developers
// and operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080 and can be overridden with the
// SILT_HTTP environment variable.
//
// Usage
//
//	silt topic create --namespace default --name demo
//
//	silt topic publish \
//	    --namespace default --topic demo \
//	    --key user-42 --data '{"hello":"world"}'
//
//	silt topic entries --namespace default --topic demo --limit 10
//	silt topic entries --namespace default --topic demo --compacted
//
//	silt topic compact --namespace default --topic demo
//
//	silt topic get --namespace default --topic demo --key user-42
//
// Notes
//
//   - compact blocks until the server's compaction worker finishes the
//     run and prints the new compacted segment id.
//   - entries --compacted reads the latest sealed compacted segment; it
//     fails with 404 when the topic was never compacted.
package client
