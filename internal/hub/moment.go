package hub

import (
	"context"

	"github.com/dokzlo13/wiserhub/internal/rest"
)

// Moment is a stored scene of room settings that can be applied on demand.
type Moment struct {
	client *rest.Client

	id   int
	name string
}

func newMoment(client *rest.Client, raw map[string]interface{}) *Moment {
	return &Moment{
		client: client,
		id:     intField(raw, "id"),
		name:   stringField(raw, "Name"),
	}
}

func (m *Moment) ID() int      { return m.id }
func (m *Moment) Name() string { return m.name }

// Activate applies this moment's stored settings.
func (m *Moment) Activate(ctx context.Context) error {
	return m.client.SendCommand(ctx, devicePath("Moment", m.id), map[string]interface{}{
		"Active": true,
	})
}
