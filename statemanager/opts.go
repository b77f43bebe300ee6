package statemanager

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

// Opts is the options for state manager.
type Opts struct {
	// Size of the read caches over the persisted state
	AccountCacheSize int
	StorageCacheSize int
	CodeCacheSize    int
}
