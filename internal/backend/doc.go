// Package backend implements the execution boundary: the call that hands a
// serialized circuit to a simulator and receives a measurement histogram.
//
// Two implementations are provided. Command runs a local simulator binary;
// Remote talks to a simulator service over a websocket. Both enforce the
// boundary limits (MaxShots, MaxQubits) before doing any work.
package backend
