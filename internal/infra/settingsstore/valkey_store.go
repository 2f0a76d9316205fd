package settingsstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/knguyen2000/officehourlens/internal/domain/faq"
)

// ValkeyStore persists course settings using a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "settings"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements faq.SettingsStore.
func (s *ValkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.settingKey(key)).Build()
	value, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set implements faq.SettingsStore.
func (s *ValkeyStore) Set(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(s.settingKey(key)).Value(value).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) settingKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

var _ faq.SettingsStore = (*ValkeyStore)(nil)
