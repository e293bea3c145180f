// Package persist moves store snapshots through the pipeline serializer -> encrypter -> storer.
//
// Pipeline.Load is run once when a store is created. Pipeline.Save is driven by a Saver,
// which runs in the background and coalesces save requests: a burst of mutations results in
// at most one write in flight plus one follow-up write, and the follow-up always persists the
// state at the time it starts. Failed runs are reported through SaverOptions.OnError and do
// not stop later runs. There is no retry timer, the next trigger retries.
package persist
