package jmdict

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLexicon = `<?xml version="1.0" encoding="UTF-8"?>
<JMdict>
<entry>
<ent_seq>1000001</ent_seq>
<r_ele>
<reb>りんご</reb>
<re_pri>ichi1</re_pri>
<re_pri>news1</re_pri>
</r_ele>
</entry>
<entry>
<ent_seq>1000002</ent_seq>
<r_ele>
<reb>ネコ</reb>
</r_ele>
<r_ele>
<reb>ねこ</reb>
</r_ele>
</entry>
<entry>
<ent_seq>1000003</ent_seq>
<r_ele>
<reb>あ</reb>
</r_ele>
<r_ele>
<reb>とてもながいよみかただよ</reb>
</r_ele>
</entry>
</JMdict>
`

func defaultOpts() ParseOptions {
	return ParseOptions{MinLen: 2, MaxLen: 8}
}

func TestParse(t *testing.T) {
	rows, stats, err := Parse(context.Background(), strings.NewReader(sampleLexicon), defaultOpts())
	require.NoError(t, err)

	// The katakana reading folds to ねこ, so the second reading of that
	// entry is a duplicate.
	require.Len(t, rows, 2)
	assert.Equal(t, Row{SortedKey: "ごりん", Word: "りんご", Length: 3, IsCommon: true}, rows[0])
	assert.Equal(t, Row{SortedKey: "こね", Word: "ねこ", Length: 2, IsCommon: false}, rows[1])

	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 5, stats.Readings)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 2, stats.FilteredLength)
	assert.Equal(t, 0, stats.FilteredScript)
}

func TestParseFiltersScript(t *testing.T) {
	lexicon := `<JMdict><entry><r_ele><reb>abc</reb></r_ele></entry></JMdict>`
	rows, stats, err := Parse(context.Background(), strings.NewReader(lexicon), defaultOpts())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, stats.FilteredScript)
}

func TestParseLimit(t *testing.T) {
	opts := defaultOpts()
	opts.Limit = 1
	rows, stats, err := Parse(context.Background(), strings.NewReader(sampleLexicon), opts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "りんご", rows[0].Word)
	assert.Equal(t, 1, stats.Kept)
}

func TestParseCustomCommonTags(t *testing.T) {
	lexicon := `<JMdict><entry><r_ele><reb>ねこ</reb><re_pri>myfreq</re_pri></r_ele></entry></JMdict>`

	rows, _, err := Parse(context.Background(), strings.NewReader(lexicon), defaultOpts())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsCommon)

	opts := defaultOpts()
	opts.CommonTags = regexp.MustCompile(`^myfreq$`)
	rows, _, err = Parse(context.Background(), strings.NewReader(lexicon), opts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsCommon)
}

func TestCommonTagPattern(t *testing.T) {
	for _, tag := range []string{"news1", "news2", "ichi1", "spec2", "gai1", "nf01", "nf48"} {
		assert.True(t, CommonTagPattern.MatchString(tag), tag)
	}
	for _, tag := range []string{"news3", "ichi", "nf", "spec1x", ""} {
		assert.False(t, CommonTagPattern.MatchString(tag), tag)
	}
}

func TestParseInvalidWindow(t *testing.T) {
	_, _, err := Parse(context.Background(), strings.NewReader(sampleLexicon), ParseOptions{MinLen: 0, MaxLen: 5})
	assert.Error(t, err)

	_, _, err = Parse(context.Background(), strings.NewReader(sampleLexicon), ParseOptions{MinLen: 5, MaxLen: 2})
	assert.Error(t, err)
}

func TestParseCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Parse(ctx, strings.NewReader(sampleLexicon), defaultOpts())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenPlainAndGzip(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "lexicon.xml")
	require.NoError(t, os.WriteFile(plain, []byte(sampleLexicon), 0o644))

	compressed := filepath.Join(dir, "lexicon.xml.gz")
	f, err := os.Create(compressed)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleLexicon))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	for _, path := range []string{plain, compressed} {
		src, err := Open(path)
		require.NoError(t, err)
		rows, _, err := Parse(context.Background(), src, defaultOpts())
		require.NoError(t, err)
		require.NoError(t, src.Close())
		assert.Len(t, rows, 2, path)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/lexicon.xml")
	assert.Error(t, err)
}
