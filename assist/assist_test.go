package assist

import (
	"testing"

	"github.com/visionsmart/insight/dataset"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    ActionKind
		wantErr bool
	}{
		{
			name:    "clustering",
			payload: `{"kind":"set_clustering","clustering":{"dataset":"sales","xColumn":"price","yColumn":"qty","k":3}}`,
			want:    KindSetClustering,
		},
		{
			name:    "tree model",
			payload: `{"kind":"set_tree_model","treeModel":{"model":"forest","target":"churn","features":["age","spend"],"numTrees":50}}`,
			want:    KindSetTreeModel,
		},
		{
			name:    "run training has no payload",
			payload: `{"kind":"run_training"}`,
			want:    KindRunTraining,
		},
		{
			name:    "kind without matching payload",
			payload: `{"kind":"set_clustering"}`,
			wantErr: true,
		},
		{
			name:    "unknown kind",
			payload: `{"kind":"reticulate_splines"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			payload: `{"kind":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := ParseAction([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if action.Kind != tt.want {
				t.Errorf("kind = %q, want %q", action.Kind, tt.want)
			}
		})
	}
}

func TestParseActionPayloadFields(t *testing.T) {
	action, err := ParseAction([]byte(`{"kind":"set_clustering","clustering":{"dataset":"sales","xColumn":"price","yColumn":"qty","k":4}}`))
	if err != nil {
		t.Fatalf("ParseAction failed: %v", err)
	}
	c := action.Clustering
	if c.Dataset != "sales" || c.XColumn != "price" || c.YColumn != "qty" || c.K != 4 {
		t.Errorf("clustering config = %+v, want the decoded fields", c)
	}
}

func TestSummarize(t *testing.T) {
	ds := dataset.New("sales", []string{"amount", "region"}, []dataset.Record{
		{"amount": dataset.Number(10), "region": dataset.Text("North")},
		{"amount": dataset.Number(20), "region": dataset.Text("South")},
	})

	summary, err := Summarize(ds)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Name != "sales" || summary.Rows != 2 {
		t.Errorf("summary = %+v, want name sales with 2 rows", summary)
	}
	if len(summary.Columns) != 2 {
		t.Fatalf("column profiles = %d, want 2", len(summary.Columns))
	}
	if summary.Columns[0].Kind != dataset.Numeric {
		t.Errorf("amount kind = %q, want numeric", summary.Columns[0].Kind)
	}
}
