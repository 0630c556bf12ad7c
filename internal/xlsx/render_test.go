package xlsx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderWorkbook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sheets []SheetData
		images SheetImages
		dir    string
		want   string
	}{
		{
			name: "sheet with images and table",
			sheets: []SheetData{
				{Name: "Charts", Rows: [][]string{{"Item", "Qty"}, {"bolts", "12"}}},
			},
			images: SheetImages{"Charts": {"image1.png", "image2.png"}},
			dir:    "extracted_images",
			want: "= book\n\n" +
				"== Charts\n\n" +
				"image::extracted_images/image1.png[image1.png]\n\n" +
				"image::extracted_images/image2.png[image2.png]\n\n" +
				"[%header%autowidth]\n|===\n" +
				"|Item |Qty\n\n" +
				"|bolts |12\n" +
				"|===\n\n",
		},
		{
			name: "ragged rows padded and pipes escaped",
			sheets: []SheetData{
				{Name: "S", Rows: [][]string{{"a"}, {"b", "c|d", "e"}}},
			},
			want: "= book\n\n" +
				"== S\n\n" +
				"[%header%autowidth]\n|===\n" +
				"|a | |\n\n" +
				`|b |c\|d |e` + "\n" +
				"|===\n\n",
		},
		{
			name:   "empty sheet has no table",
			sheets: []SheetData{{Name: "Empty"}},
			want:   "= book\n\n== Empty\n\n",
		},
		{
			name:   "images of unknown sheets appended",
			sheets: []SheetData{{Name: "A", Rows: [][]string{{"h"}}}},
			images: SheetImages{"Unknown_Sheet_drawing3.xml": {"image9.png"}},
			want: "= book\n\n" +
				"== A\n\n" +
				"[%header%autowidth]\n|===\n|h\n|===\n\n" +
				"== Unknown_Sheet_drawing3.xml\n\n" +
				"image::image9.png[image9.png]\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RenderWorkbook("book", tt.sheets, tt.images, tt.dir)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RenderWorkbook() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
