package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robosim-backend/models"
)

func TestApplyPush(t *testing.T) {
	obj := models.Pushable{ID: "box", Radius: 25}

	t.Run("no contact", func(t *testing.T) {
		cur := models.Point{X: 200, Z: 100}
		got, contact := ApplyPush(models.Pose{X: 200, Z: 200}, 35, obj, cur, 4)
		assert.False(t, contact)
		assert.Equal(t, cur, got)
	})

	t.Run("touching is not contact", func(t *testing.T) {
		_, contact := ApplyPush(models.Pose{X: 200, Z: 200}, 35, obj, models.Point{X: 200, Z: 140}, 4)
		assert.False(t, contact)
	})

	t.Run("pushed away from robot", func(t *testing.T) {
		got, contact := ApplyPush(models.Pose{X: 200, Z: 200, Heading: 90}, 35, obj, models.Point{X: 200, Z: 150}, 4)
		require.True(t, contact)
		assert.InDelta(t, 200.0, got.X, 1e-9)
		assert.InDelta(t, 146.0, got.Z, 1e-9, "direction follows robot→object, not heading")
	})

	t.Run("diagonal", func(t *testing.T) {
		got, contact := ApplyPush(models.Pose{X: 0, Z: 0}, 35, obj, models.Point{X: 30, Z: 40}, 5)
		require.True(t, contact)
		assert.InDelta(t, 33.0, got.X, 1e-9)
		assert.InDelta(t, 44.0, got.Z, 1e-9)
	})

	t.Run("coincident centres use heading", func(t *testing.T) {
		got, contact := ApplyPush(models.Pose{X: 100, Z: 100, Heading: 0}, 35, obj, models.Point{X: 100, Z: 100}, 4)
		require.True(t, contact)
		assert.InDelta(t, 104.0, got.X, 1e-9)
		assert.InDelta(t, 100.0, got.Z, 1e-9)
	})
}

func TestOutsideRing(t *testing.T) {
	ring := models.Ring{X: 200, Z: 200, Radius: 150}
	assert.False(t, OutsideRing(models.Point{X: 200, Z: 50}, ring))
	assert.True(t, OutsideRing(models.Point{X: 200, Z: 49.9}, ring))
	assert.True(t, OutsideRing(models.Point{X: 400, Z: 400}, ring))
}

func TestOutObjectsAreFrozen(t *testing.T) {
	ch := sumo()
	p := DefaultParams()
	sess := NewSession(ch)
	sess.OutOfRing = withID(sess.OutOfRing, "box")
	sess.Robot.Pose = models.Pose{X: 200, Z: 170, Heading: 270}

	res := StepResult{Events: Evaluate(ch, sess, p, 1)}

	assert.False(t, res.Has(EventPushed))
	assert.False(t, res.Has(EventPushedOut))
	assert.Equal(t, models.Point{X: 200, Z: 150}, sess.PushablePositions["box"])
}
