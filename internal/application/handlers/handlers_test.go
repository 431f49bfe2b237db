package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/dex-core/internal/domain/mocks"
	"github.com/ersonp/dex-core/internal/domain/services"
)

const testCSV = `#,Name,Type 1,Type 2,Total,HP,Attack,Defense,Sp. Atk,Sp. Def,Speed,Generation,Legendary
1,Bulbasaur,Grass,Poison,318,45,49,49,65,65,45,1,False
4,Charmander,Fire,,309,39,52,43,60,50,65,1,False
6,Charizard,Fire,Flying,534,78,84,78,109,85,100,1,False
6,CharizardMega Charizard X,Fire,Dragon,634,78,130,111,130,85,100,1,False
7,Squirtle,Water,,314,44,48,65,50,64,43,1,False
37,Vulpix,Fire,,299,38,41,40,50,65,65,1,False
645,Landorus Therian Forme,Ground,Flying,600,89,145,90,105,80,91,5,True
151,Broken,Psychic,,0,x,1,1,1,1,1,1,False
`

// writeCSV writes content to a temp source file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// loadedStore returns a record store holding testCSV.
func loadedStore(t *testing.T) *services.RecordStore {
	t.Helper()
	store := services.NewRecordStore(nil)
	_, err := store.LoadFile(writeCSV(t, testCSV))
	require.NoError(t, err)
	return store
}

func newTestQueryHandler(t *testing.T, assets *mocks.AssetStore) *QueryHandler {
	t.Helper()
	store := loadedStore(t)
	return NewQueryHandler(services.NewQueryService(store), services.NewImageResolver(assets, "", nil))
}
