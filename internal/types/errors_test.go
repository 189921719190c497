package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	// Setup
	code := ErrIllegalAction
	message := "cannot hit a resolved hand"

	// Execute
	err := NewGameError(code, message)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	// Setup
	code := ErrStorageError
	message := "failed to archive round"
	underlying := errors.New("connection failed")

	// Execute
	err := WrapError(code, message, underlying)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Equal(underlying, err.Err, "Underlying error should match")
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrInsufficientFunds, "bet exceeds chips"),
			expected: "INSUFFICIENT_FUNDS: bet exceeds chips",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrStorageError, "failed to archive round", errors.New("connection failed")),
			expected: "STORAGE_ERROR: failed to archive round (connection failed)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
		})
	}
}

func (s *ErrorTestSuite) TestUnwrap() {
	underlying := errors.New("disk full")
	err := WrapError(ErrStorageError, "save failed", underlying)

	s.Equal(underlying, err.Unwrap(), "Unwrap should return the underlying error")
	s.True(errors.Is(err, underlying), "errors.Is should find the underlying error")
}

func (s *ErrorTestSuite) TestIsGameError() {
	gameErr := NewGameError(ErrInvalidConfiguration, "deck count out of range")
	plainErr := errors.New("plain error")

	s.True(IsGameError(gameErr, ErrInvalidConfiguration), "Should match the correct code")
	s.False(IsGameError(gameErr, ErrIllegalAction), "Should not match a different code")
	s.False(IsGameError(plainErr, ErrInvalidConfiguration), "Plain errors are not game errors")
	s.False(IsGameError(nil, ErrInvalidConfiguration), "Nil is not a game error")
}
