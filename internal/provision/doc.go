// Package provision ensures embedding models are present in a local cache
// before the host application starts.
//
// A run walks a list of ModelSpecs in order. Specs already cached are
// skipped; the rest are fetched through a Loader while progress is drawn to
// the console. Fetch failures are printed and tallied but never returned, so
// a failed pre-download only means the model downloads on first use instead.
package provision
