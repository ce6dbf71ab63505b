package analysis

import (
	"path"

	"github.com/zeu5/game-dynamics/util"
)

// JsonComparator writes the datasets of all compared experiments, keyed by
// experiment name, to one JSON file for external plotting.
type JsonComparator struct {
	savePath string
}

var _ Comparator = &JsonComparator{}

func NewJsonComparator(savePath, name string) *JsonComparator {
	return &JsonComparator{
		savePath: path.Join(savePath, name+".json"),
	}
}

func (c *JsonComparator) Compare(experimentNames []string, datasets []DataSet) {
	out := make(map[string]DataSet)
	for i, name := range experimentNames {
		out[name] = datasets[i]
	}
	util.SaveJson(c.savePath, out)
}
