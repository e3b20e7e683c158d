package utils

import (
	"fmt"
	"sync"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	nodesMu sync.Mutex
	nodes   = map[int64]*snowflake.Node{}
)

// NewRequestID returns a sortable, globally unique request identifier.
func NewRequestID() string {
	return ksuid.New().String()
}

// NewEventID returns a snowflake id generated on the given node (0-1023).
func NewEventID(nodeID int64) (string, error) {
	nodesMu.Lock()
	node, ok := nodes[nodeID]
	if !ok {
		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			nodesMu.Unlock()
			return "", fmt.Errorf("snowflake node %d: %w", nodeID, err)
		}
		nodes[nodeID] = node
	}
	nodesMu.Unlock()
	return node.Generate().String(), nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsPasswordHash reports whether s already is a bcrypt hash.
func IsPasswordHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// EncodePassword hashes password unless it is empty or equal to current, the
// hash already stored for the credential. Any other value is treated as raw,
// including one that looks like a bcrypt hash.
func EncodePassword(password, current string) (string, error) {
	if password == "" || (current != "" && password == current) {
		return password, nil
	}
	if len(password) > MaxPasswordBytes {
		return "", models.NewValidation("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	return HashPassword(password)
}
