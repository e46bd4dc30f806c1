// Package testutil provides shared test doubles and audio fixtures.
//
// MockTranscriber and MockNormalizer are testify mocks of the two stages the
// chunked transcriber depends on. Silence, Tone and WAV build canonical PCM
// inputs of an exact duration.
package testutil
