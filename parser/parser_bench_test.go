package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func benchmarkSource(vouchers int) string {
	var b strings.Builder
	b.WriteString("#FLAGGA 0\n#GEN 20240101\n#SIETYP 4\n")
	b.WriteString("#KONTO 1910 \"Kassa\"\n#KONTO 3010 \"Försäljning\"\n#DIM 6 \"Projekt\"\n")
	for i := 1; i <= vouchers; i++ {
		fmt.Fprintf(&b, "#VER A %d 20240115 \"Försäljning %d\"\n{\n", i, i)
		fmt.Fprintf(&b, "#TRANS 1910 {6 \"P%d\"} %d.50\n", i%10, i)
		fmt.Fprintf(&b, "#TRANS 3010 {} -%d.50\n}\n", i)
	}
	return b.String()
}

func BenchmarkParseString(b *testing.B) {
	src := benchmarkSource(5000)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := ParseString(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	line := `#TRANS 3010 {1 "100" 6 "P1"} -250.00 20240115 "Försäljning norr" 2 "Anna"`
	for i := 0; i < b.N; i++ {
		_ = Tokenize(line)
	}
}
