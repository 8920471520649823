package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_StoresSpecificType(t *testing.T) {
	m := NewManager()
	m.Update("u1", RecruiterTechLead)

	got, ok := m.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, RecruiterTechLead, got)
}

func TestManager_NoDowngradeToGeneralist(t *testing.T) {
	m := NewManager()
	m.Update("u1", RecruiterHRManager)
	m.Update("u1", RecruiterGeneralist)

	got, _ := m.Get("u1")
	assert.Equal(t, RecruiterHRManager, got)
}

func TestManager_SpecificOverwritesSpecific(t *testing.T) {
	m := NewManager()
	m.Update("u1", RecruiterTechLead)
	m.Update("u1", RecruiterProductManager)

	got, _ := m.Get("u1")
	assert.Equal(t, RecruiterProductManager, got)
}

func TestManager_GeneralistStoredWhenNothingSet(t *testing.T) {
	m := NewManager()
	m.Update("u1", RecruiterGeneralist)

	got, ok := m.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, RecruiterGeneralist, got)
}

func TestManager_GetUnknownUser(t *testing.T) {
	m := NewManager()
	_, ok := m.Get("nobody")
	assert.False(t, ok)
}

func TestManager_StickyAcrossAnySequence(t *testing.T) {
	// Once a specific type is stored, GENERALIST never changes it.
	sequences := [][]RecruiterType{
		{RecruiterTechLead, RecruiterGeneralist, RecruiterGeneralist},
		{RecruiterGeneralist, RecruiterHRManager, RecruiterGeneralist},
		{RecruiterProductManager, RecruiterGeneralist, RecruiterTechLead, RecruiterGeneralist},
	}
	want := []RecruiterType{RecruiterTechLead, RecruiterHRManager, RecruiterTechLead}

	for i, seq := range sequences {
		m := NewManager()
		for _, rt := range seq {
			m.Update("u", rt)
		}
		got, _ := m.Get("u")
		assert.Equal(t, want[i], got, "sequence %d", i)
	}
}

func TestManager_Concurrent(t *testing.T) {
	t.Parallel()
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(fmt.Sprintf("u%d", i%5), RecruiterTechLead)
			m.Update(fmt.Sprintf("u%d", i%5), RecruiterGeneralist)
			_, _ = m.Get(fmt.Sprintf("u%d", i%5))
		}()
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		got, _ := m.Get(fmt.Sprintf("u%d", i))
		assert.Equal(t, RecruiterTechLead, got)
	}
}
