//go:build !linux && !darwin

package index

// platformApps has no enumerator on this platform; the application bucket
// stays empty and searches degrade gracefully.
func platformApps(_ Options) []Entry {
	return nil
}
