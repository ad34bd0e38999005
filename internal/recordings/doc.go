// Package recordings provides an HTTP client for the recordings API.
//
// # Overview
//
// The client lists recording metadata with filter parameters and downloads
// recording content through the API's signed-URL scheme. Authentication is
// delegated to a Session, which supplies the base URL and the header attached
// to authenticated requests (see package auth).
//
// # Architecture
//
//   - client.go: Client, options, request handling
//   - query.go: Query options and the ordered "where" filter
//   - stream.go: lazy chunked download stream
//   - errors.go: RequestRejectedError, HTTPError and sentinels
//   - types.go: RecordingID and the Summary view of query rows
//   - metrics.go: Prometheus counters
//
// # Client Usage
//
//	client, err := recordings.New(session)
//	if err != nil {
//		return err
//	}
//
//	rows, err := client.Query(ctx, recordings.Query{
//		Type:      recordings.Ptr("audio"),
//		StartDate: time.Now().AddDate(0, 0, -7),
//		MinSecs:   recordings.Ptr(10.0),
//	})
//
//	stream, err := client.Download(ctx, recordings.IntID(42))
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//	for chunk, err := range stream.Chunks() {
//		...
//	}
//
// # API Endpoints
//
//   - GET /api/v1/recordings?where=&limit=&offset=&tagMode=&tags=: {"rows": [...]}
//   - GET /api/v1/recordings/{id}: {"downloadFileJWT": ..., "downloadRawJWT": ...}
//   - GET /api/v1/signedUrl?jwt=: raw bytes, no session header
//
// # Query Filter
//
// Query holds the nine query options. Type and MinSecs are pointers so that
// an empty type or a zero minimum can still be sent; Ptr builds them inline.
// Where builds the filter with keys in a fixed order (type, duration,
// recordingDateTime, DeviceId) and only for options that are set. Dates are
// written as RFC 3339. Limit defaults to 100 and offset to 0.
//
// # Downloads
//
// Download and DownloadRaw differ only in the JWT field they read from the
// recording (downloadFileJWT or downloadRawJWT). The recording request is made
// immediately. The signed-URL request is made on the first Stream.Open or
// Stream.Next, and the body is then read in chunks of at most the configured
// chunk size (4096 bytes by default). The connection is released when the
// stream is drained, fails, or is closed. A stream cannot be restarted.
//
// # Error Handling
//
//   - *RequestRejectedError: a query answered with 400 or 422; carries the
//     server message ("request failed (422): bad filter")
//   - *HTTPError: any other non-2xx status
//   - ErrMissingToken: the recording payload lacks the requested JWT
//   - transport errors are returned wrapped ("execute request: ...")
//
// Nothing is retried. Error URLs omit the query string so tokens never end up
// in logs.
//
// # Thread Safety
//
// Client is safe for concurrent use. Stream is not.
package recordings
