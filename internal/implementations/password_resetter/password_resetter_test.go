package passwordresetter

import (
	"natours/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	resetter *Random
}

func (s *testSuite) SetupTest() {
	s.resetter = NewRandom()
}

func TestRandomPasswordResetter(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestTokenHasFullEntropy() {
	token, _, err := s.resetter.GenerateToken()
	s.Require().NoError(err)
	s.Len(string(token), 2*tokenBytes)
}

func (s *testSuite) TestTokensAreUnique() {
	tokens := make(map[user.PasswordResetToken]struct{})
	for i := 0; i < 100; i++ {
		token, _, err := s.resetter.GenerateToken()
		s.Require().NoError(err)
		_, exists := tokens[token]
		s.Require().False(exists)
		tokens[token] = struct{}{}
	}
}

func (s *testSuite) TestHashMatchesGeneratedHash() {
	token, hash, err := s.resetter.GenerateToken()
	s.Require().NoError(err)

	s.Equal(hash, s.resetter.HashToken(token))
	s.NotEqual(user.PasswordResetTokenHash(token), hash)
}

func (s *testSuite) TestKnownDigest() {
	s.Equal(
		user.PasswordResetTokenHash("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"),
		s.resetter.HashToken("hello"),
	)
}

func (s *testSuite) TestDifferentTokensHaveDifferentHashes() {
	s.NotEqual(s.resetter.HashToken("token-1"), s.resetter.HashToken("token-2"))
}
