package main

import (
	"math"
	"testing"

	"github.com/tigdev/bazaarwatch/internal/analytics"
	"github.com/tigdev/bazaarwatch/internal/config"
)

func TestCraftModel(t *testing.T) {
	t.Run("zero config keeps built-in rates", func(t *testing.T) {
		got := craftModel(config.CraftConfig{})
		want := analytics.DefaultCraftModel()
		if got != want {
			t.Errorf("craftModel = %+v, want %+v", got, want)
		}
	})

	t.Run("overrides applied", func(t *testing.T) {
		got := craftModel(config.CraftConfig{KernelYield: 1.5, CellsPerLoop: 25})
		if math.Abs(got.KernelYield-1.5) > 1e-9 {
			t.Errorf("KernelYield = %v, want 1.5", got.KernelYield)
		}
		if math.Abs(got.CellsPerLoop-25) > 1e-9 {
			t.Errorf("CellsPerLoop = %v, want 25", got.CellsPerLoop)
		}
	})

	t.Run("partial override keeps the other rate", func(t *testing.T) {
		got := craftModel(config.CraftConfig{CellsPerLoop: 25})
		want := analytics.DefaultCraftModel()
		if got.KernelYield != want.KernelYield {
			t.Errorf("KernelYield = %v, want default %v", got.KernelYield, want.KernelYield)
		}
		if got.CellsPerLoop != 25 {
			t.Errorf("CellsPerLoop = %v, want 25", got.CellsPerLoop)
		}
	})
}
