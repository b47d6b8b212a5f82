package worker

import "testing"

func TestReducerForKeyStable(t *testing.T) {
	nReduce := 8
	key := "35.7762, -78.6246"
	first := reducerForKey(key, nReduce)
	for i := 0; i < 100; i++ {
		got := reducerForKey(key, nReduce)
		if got != first {
			t.Fatalf("expected stable reducer for key %q: %d != %d", key, got, first)
		}
	}
}

func TestReducerForKeyRange(t *testing.T) {
	nReduce := 7
	keys := []string{"ASSAULT/SIMPLE", "FRAUD/ALL OTHER", "LARCENY/FROM MV", "35.7762, -78.6246", "", " ", "k3"}
	for _, key := range keys {
		got := reducerForKey(key, nReduce)
		if got < 0 || got >= nReduce {
			t.Fatalf("reducer id out of range for key %q: %d", key, got)
		}
	}
}
