// Package fetch downloads fresh NEO datasets from the JPL SSD/CNEOS API.
//
// Two endpoints are consumed: sbdb_query.api for the NEO inventory and
// cad.api for close-approach records. The close-approach history is too
// large for a single request, so it is fetched in consecutive date windows,
// concurrently but behind one shared rate limiter, and merged back in
// chronological order.
//
// The payloads produced here are byte-compatible with the shipped datasets:
// neos.csv and cad.json load through the extract package either way.
//
//	client := fetch.New()
//
//	var neos, cad bytes.Buffer
//	if _, err := client.FetchNEOs(ctx, &neos); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := client.FetchApproaches(ctx, &cad); err != nil {
//	    log.Fatal(err)
//	}
package fetch
