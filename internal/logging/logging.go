// Package logging exposes the package-level logger the election driver
// and its collaborators write structured events to.
package logging

import "github.com/sirupsen/logrus"

// Logger is the shared structured logger. Replace it (e.g. in a test or
// an embedding application) before running an election to redirect or
// silence output.
var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}

// WithVoter returns a logger entry tagged with a voter ID, the common
// case for ballot-casting and proof events.
func WithVoter(voterID string) *logrus.Entry {
	return Logger.WithField("voter", voterID)
}

// WithBallot returns a logger entry tagged with a ballot ID.
func WithBallot(ballotID string) *logrus.Entry {
	return Logger.WithField("ballot", ballotID)
}
