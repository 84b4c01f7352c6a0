// Package eventlist provides the append-only, time-ordered event storage
// underneath every analysis index.
//
// Insertion happens in batches:
//
//	l.BeginInserting()
//	for _, e := range batch {
//		l.InsertEvent(e)
//	}
//	l.EndInserting()
//
// Types embedding List and overriding the three batch methods must call the
// embedded implementation so storage stays consistent.
package eventlist
