package markup

import (
	"errors"
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`a & b < c > d "e" 'f'`, "a &amp; b &lt; c &gt; d &quot;e&quot; &#39;f&#39;"},
		{"bell\x07tab\tline\nnel\u0085c1\u0090", "belltab\tline\nnel\u0085c1"},
		{"&amp;", "&amp;amp;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixAmpersands(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"R&D", "R&amp;D"},
		{"&amp; &lt; &gt; &quot; &apos;", "&amp; &lt; &gt; &quot; &apos;"},
		{"&#123; &#x1F600; &#XAB;", "&#123; &#x1F600; &#xAB;"},
		{"&nbsp; &#; &#xZZ;", "&amp;nbsp; &amp;#; &amp;#xZZ;"},
		{"&&", "&amp;&amp;"},
	}
	for _, tt := range tests {
		if got := FixAmpersands(tt.in); got != tt.want {
			t.Errorf("FixAmpersands(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			name: "empty text and run",
			in:   `<w:p><w:r><w:t>a</w:t></w:r><w:r><w:t xml:space="preserve"></w:t></w:r></w:p>`,
			want: `<w:p><w:r><w:t>a</w:t></w:r></w:p>`,
		},
		{
			name: "styled empty run",
			in:   `<w:p><w:r><w:rPr><w:b/><w:color w:val="FF0000"/></w:rPr></w:r></w:p>`,
			want: `<w:p></w:p>`,
		},
		{
			name: "separating space is kept",
			in:   `<w:p><w:r><w:t>a</w:t></w:r><w:r><w:t xml:space="preserve"> </w:t></w:r><w:r><w:t>b</w:t></w:r></w:p>`,
			want: `<w:p><w:r><w:t>a</w:t></w:r><w:r><w:t xml:space="preserve"> </w:t></w:r><w:r><w:t>b</w:t></w:r></w:p>`,
		},
		{
			name: "blank only run of paragraph",
			in:   `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t xml:space="preserve">  </w:t></w:r></w:p>`,
			want: `<w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p>`,
		},
		{
			name: "blank paragraph does not reach into neighbours",
			in:   `<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p><w:p><w:r><w:t> </w:t></w:r></w:p>`,
			want: `<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p><w:p></w:p>`,
		},
		{
			name: "empty equations",
			in:   `<w:p><m:oMathPara><m:oMath></m:oMath></m:oMathPara></w:p>`,
			want: `<w:p></w:p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prune(tt.in); got != tt.want {
				t.Errorf("Prune() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestSanitize_EmptyEquationLeavesBlankParagraph(t *testing.T) {
	in := `<w:p><m:oMath></m:oMath><w:r><w:t xml:space="preserve"> </w:t></w:r></w:p>`
	if got := Sanitize(in); got != "<w:p></w:p>" {
		t.Errorf("Sanitize(%q) = %q, want %q", in, got, "<w:p></w:p>")
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		`<w:p><w:r><w:t>Tom & Jerry &amp; friends &#169; &#xA9;</w:t></w:r></w:p>`,
		"<w:p><w:r><w:t>ctl\x01\x02\x1f\u0086 text</w:t></w:r><w:r><w:t></w:t></w:r></w:p>",
		`<w:p><m:oMathPara><m:oMath> </m:oMath></m:oMathPara></w:p><w:p><w:r><w:rPr/></w:r></w:p>`,
		`&&&amp;&;&#;`,
		`<w:p><m:oMath></m:oMath><w:r><w:t xml:space="preserve"> </w:t></w:r></w:p>`,
		`<w:p><w:r><w:t xml:space="preserve"> </w:t></w:r><m:oMathPara><m:oMath></m:oMath></m:oMathPara></w:p>`,
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize is not idempotent for %q:\nonce  %q\ntwice %q", in, once, twice)
		}
		if HasIllegal(once) {
			t.Errorf("Sanitize(%q) left illegal characters: %q", in, once)
		}
		if hasRawAmp(once) {
			t.Errorf("Sanitize(%q) left raw ampersand: %q", in, once)
		}
	}
}

const goodDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>A &amp; B</w:t></w:r></w:p></w:body></w:document>`

func TestCheck(t *testing.T) {
	if err := Check(goodDocument); err != nil {
		t.Fatalf("Check() on valid document = %v", err)
	}

	tests := []struct {
		name string
		in   string
		want []error
	}{
		{"empty", "", []error{ErrEmpty}},
		{"no declaration", strings.TrimPrefix(goodDocument, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`), []error{ErrNoDeclaration}},
		{"no body", strings.NewReplacer("<w:body>", "", "</w:body>", "").Replace(goodDocument), []error{ErrNoBody}},
		{"illegal", strings.Replace(goodDocument, "A ", "A\x02", 1), []error{ErrIllegalChar}},
		{"raw ampersand", strings.Replace(goodDocument, "&amp;", "&", 1), []error{ErrUnescapedAmp}},
		{"unbalanced", strings.Replace(goodDocument, "</w:body>", "</w:body></w:body>", 1), []error{ErrUnbalanced}},
		{"several", "<w:document><w:body>\x03</w:body></w:document>", []error{ErrNoDeclaration, ErrIllegalChar}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.in)
			if err == nil {
				t.Fatal("Check() = nil, want error")
			}
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Check() = %v, want it to contain %v", err, want)
				}
			}
		})
	}
}

func TestCheckBasic(t *testing.T) {
	if err := CheckBasic(`<?xml version="1.0"?><Types/>`, "[Content_Types].xml"); err != nil {
		t.Errorf("CheckBasic() = %v", err)
	}
	err := CheckBasic("<Types>\x0b</Types>", "[Content_Types].xml")
	if !errors.Is(err, ErrNoDeclaration) || !errors.Is(err, ErrIllegalChar) {
		t.Errorf("CheckBasic() = %v, want both declaration and illegal char errors", err)
	}
	if !strings.Contains(err.Error(), "[Content_Types].xml") {
		t.Errorf("CheckBasic() error should name the part: %v", err)
	}
}

func TestFindUnescapedAmp(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<w:t>fine &amp; &#38; &lt;</w:t>`, ""},
		{`<w:t>a</w:t><w:t xml:space="preserve">R&D</w:t>`, `<w:t xml:space="preserve">R&D</w:t>`},
		{`<w:instrText>a & b</w:instrText>`, ""},
	}
	for _, tt := range tests {
		if got := FindUnescapedAmp(tt.in); got != tt.want {
			t.Errorf("FindUnescapedAmp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
