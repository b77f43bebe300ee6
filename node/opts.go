package node

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

// Opts is the options for node.
type Opts struct {
	// The number of requests that can wait for the executor.
	QueueSize int

	// Size of the shared jump analysis cache, 0 disables caching.
	JumpdestCacheSize int
}
