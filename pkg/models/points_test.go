package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{2000, 6},
		{4000, 7},
		{8000, 8},
		{16000, 9},
		{32000, 10},
		{1000000, 10},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestLevelForPointsNeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(-50))
}

func TestPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 100, PointsToNextLevel(0))
	assert.Equal(t, 1, PointsToNextLevel(99))
	assert.Equal(t, 150, PointsToNextLevel(100))
	assert.Equal(t, 0, PointsToNextLevel(32000))
	assert.Equal(t, 0, PointsToNextLevel(50000))
}
