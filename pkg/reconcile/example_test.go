package reconcile_test

import (
	"fmt"
	"strings"

	"github.com/agentstation/ansync/pkg/reconcile"
)

func ExampleReconcile() {
	desired := map[string]string{
		"juno>juno": "native:ujuno",
		"juno>wynd": "cw20:juno1wynd",
	}
	current := map[string]string{
		"juno>juno": "native:ujuno",
		"juno>neta": "cw20:juno1neta",
	}

	cs := reconcile.Reconcile(desired, current, reconcile.KeepStale)

	fmt.Println("remove:", cs.SortedRemovals(strings.Compare))
	for _, name := range cs.SortedAdditions(strings.Compare) {
		fmt.Println("add:", name, cs.Additions[name])
	}
	// Output:
	// remove: [juno>neta]
	// add: juno>wynd cw20:juno1wynd
}

func ExampleReconcile_removeStale() {
	desired := map[int]string{0: "wyndex/juno>atom,juno>juno"}
	current := map[int]string{0: "wyndex/juno>atom,juno>jun0"}

	cs := reconcile.Reconcile(desired, current, reconcile.RemoveStale)

	fmt.Println(cs.Removals.Contains(0), cs.Additions[0])
	fmt.Println(cs)
	// Output:
	// true wyndex/juno>atom,juno>juno
	// 1 updated
}
