package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

const sampleSeed = `
orders:
  - id: f6069a542257054114138301947672ba
    deliverTo: 1600 Pennsylvania Avenue NW, Washington, DC 20500
    mobileNumber: (202) 456-1111
    status: out-for-delivery
    dishes:
      - name: Dolcelatte and chickpea spaghetti
        quantity: 1
  - id: 5a887d326e83d3c5bdcbee398ea32aff
    deliverTo: 308 Negra Arroyo Lane, Albuquerque, NM
    mobileNumber: (505) 143-3369
    dishes:
      - name: Broccoli and beetroot stir fry
        quantity: 2
`

func TestLoad_DecodesOrdersInFileOrder(t *testing.T) {
	orders, err := Load(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "f6069a542257054114138301947672ba", orders[0].ID)
	assert.Equal(t, domain.StatusOutForDelivery, orders[0].Status)
	assert.Equal(t, []domain.Dish{{Name: "Dolcelatte and chickpea spaghetti", Quantity: 1}}, orders[0].Dishes)

	assert.Equal(t, domain.StatusPending, orders[1].Status)
	assert.Equal(t, 2, orders[1].Dishes[0].Quantity)
}

func TestLoad_EmptyDocument(t *testing.T) {
	orders, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestLoad_RejectsInvalidOrders(t *testing.T) {
	cases := map[string]string{
		"no dishes": `
orders:
  - id: a1
    deliverTo: here
    mobileNumber: "1"
    dishes: []
`,
		"zero quantity": `
orders:
  - id: a1
    deliverTo: here
    mobileNumber: "1"
    dishes:
      - name: soup
        quantity: 0
`,
		"unknown status": `
orders:
  - id: a1
    deliverTo: here
    mobileNumber: "1"
    status: lost
    dishes:
      - name: soup
        quantity: 1
`,
		"duplicate id": `
orders:
  - id: a1
    deliverTo: here
    mobileNumber: "1"
    dishes:
      - name: soup
        quantity: 1
  - id: a1
    deliverTo: there
    mobileNumber: "2"
    dishes:
      - name: bread
        quantity: 1
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestApply_SkipsExistingIDs(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	orders, err := Load(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	inserted, err := Apply(ctx, repo, orders)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = Apply(ctx, repo, orders)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, orders[0].ID, list[0].ID)
	assert.Equal(t, orders[1].ID, list[1].ID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o600))

	orders, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
