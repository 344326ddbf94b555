package scene

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="2" height="2" tilewidth="16" tileheight="16">
 <tileset firstgid="1" name="tiles" tilewidth="16" tileheight="16" tilecount="1" columns="1">
  <image source="tiles.png" width="16" height="16"/>
 </tileset>
 <layer id="1" name="solid" width="2" height="2">
  <data encoding="csv">
1,0,
0,1
</data>
 </layer>
 <objectgroup id="2" name="Triggers">
  <object id="1" name="door" x="0" y="0" width="16" height="16">
   <properties>
    <property name="event" value="onEnter"/>
    <property name="action" value="open"/>
    <property name="oneShot" type="bool" value="true"/>
   </properties>
  </object>
 </objectgroup>
 <objectgroup id="3" name="Spawns">
  <object id="2" name="start" x="8" y="8"/>
 </objectgroup>
</map>
`

func TestImportTiled(t *testing.T) {
	fsys := fstest.MapFS{
		"maps/cavern.tmx": &fstest.MapFile{Data: []byte(testTMX)},
	}

	sc, problems, err := ImportTiled(fsys, "maps/cavern.tmx")
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Empty(t, Fatals(problems))

	assert.Equal(t, "cavern", sc.ID)
	assert.Equal(t, Size{Width: 32, Height: 32}, sc.Size)

	var solids, triggers, spawns int
	for _, o := range sc.Objects {
		switch o.Type {
		case TypeCollider:
			solids++
			require.NotNil(t, o.Collider)
			assert.Equal(t, ShapeBox, o.Collider.Shape)
			assert.True(t, o.Collider.IsStatic)
		case TypeTrigger:
			triggers++
		case TypeSpawn:
			spawns++
		}
	}
	assert.Equal(t, 2, solids)
	assert.Equal(t, 1, triggers)
	assert.Equal(t, 1, spawns)

	door := sc.Object("door")
	require.NotNil(t, door)
	require.NotNil(t, door.Trigger)
	assert.Equal(t, EventEnter, door.Trigger.Event)
	assert.Equal(t, "open", door.Trigger.Action)
	assert.True(t, door.Trigger.OneShot)
	assert.Equal(t, Size{Width: 16, Height: 16}, door.Size)

	start := sc.Object("start")
	require.NotNil(t, start)
	// Point objects get a minimal positive extent so validation passes.
	assert.Equal(t, Size{Width: 1, Height: 1}, start.Size)
}

func TestImportTiledMissingFile(t *testing.T) {
	_, _, err := ImportTiled(fstest.MapFS{}, "maps/nope.tmx")
	assert.Error(t, err)
}
