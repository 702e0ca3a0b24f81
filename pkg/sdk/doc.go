// Package productsearch embeds the product indexing pipeline and query service
// in a Go program, backed by Redis with the search module.
//
//	client, _ := productsearch.New(ctx, productsearch.WithRedis("localhost:6379", ""))
//	defer client.Close()
//	_ = client.EnsureIndex(ctx)
//	_ = client.Index(ctx, rawChangeEvent)
//	hits, _ := client.Search(ctx, "@brand:Acme", "name", "brand")
//
// Index takes the same change-event payload the stream carries. Search passes the
// query to the engine unchanged; with no field names it returns every stored field.
package productsearch
