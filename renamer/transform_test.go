package renamer_test

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssmangle/common"
	"cssmangle/renamer"
)

const growthCSS = `:root{--main-color:blue;--accent-color:red;}
.button{color:var(--main-color)}
.button.primary{color:var(--accent-color)}`

func transform(t *testing.T, in string, opts renamer.Options) *renamer.Result {
	t.Helper()
	opts.Minify = true
	res, err := renamer.New(zap.NewNop()).Transform([]byte(in), opts)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	return res
}

func TestTransform_TableGrowth(t *testing.T) {
	res := transform(t, growthCSS, renamer.Options{Mode: common.RenameModeMinimal})

	want := `:root{--a:blue;--b:red}.c{color:var(--a)}.c.d{color:var(--b)}`
	if got := string(res.CSS); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	wantTables := &renamer.ConversionTables{
		Selector: renamer.Table{`\.button`: `\.c`, `\.primary`: `\.d`},
		Ident:    renamer.Table{"main-color": "a", "accent-color": "b"},
	}
	if !reflect.DeepEqual(res.Tables, wantTables) {
		t.Errorf("tables:\n got %#v\nwant %#v", res.Tables, wantTables)
	}
	if res.Created != 4 {
		t.Errorf("expected 4 new entries, got %d", res.Created)
	}
}

func TestTransform_Determinism(t *testing.T) {
	for _, mode := range []common.RenameMode{common.RenameModeHash, common.RenameModeMinimal, common.RenameModeDebug} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := renamer.Options{Mode: mode, Seed: 7, Prefix: "p", Suffix: "s"}
			first := transform(t, growthCSS, opts)
			second := transform(t, growthCSS, opts)
			if string(first.CSS) != string(second.CSS) {
				t.Errorf("output differs:\n%s\n%s", first.CSS, second.CSS)
			}
			if !reflect.DeepEqual(first.Tables, second.Tables) {
				t.Errorf("tables differ:\n%#v\n%#v", first.Tables, second.Tables)
			}
		})
	}
}

var hashedClass = regexp.MustCompile(`^\\\.[a-z][0-9a-f]{7}$`)

func TestTransform_HashSeed(t *testing.T) {
	a := transform(t, ".button{}", renamer.Options{Seed: 1})
	b := transform(t, ".button{}", renamer.Options{Seed: 2})

	if string(a.CSS) == string(b.CSS) {
		t.Errorf("different seeds produced same output %s", a.CSS)
	}
	for _, res := range []*renamer.Result{a, b} {
		if v := res.Tables.Selector[`\.button`]; !hashedClass.MatchString(v) {
			t.Errorf("unexpected hashed value %q", v)
		}
	}
}

func TestTransform_Debug(t *testing.T) {
	res := transform(t, `.button#main{--size:1px}`, renamer.Options{
		Mode:   common.RenameModeDebug,
		Prefix: "p-",
		Suffix: "-s",
	})
	if got, want := string(res.CSS), `._p-button-s#_p-main-s{--_p-size-s:1px}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTransform_SeededTables(t *testing.T) {
	seed := &renamer.ConversionTables{
		Selector: renamer.Table{`\.existing`: `\.preserved-class`, `\.a`: `\.a`},
		Ident:    renamer.Table{},
	}
	res := transform(t, `.existing{color:red}.new{color:blue}`, renamer.Options{
		Mode:   common.RenameModeMinimal,
		Tables: seed,
	})

	// "a" is already used as a value and is skipped
	if got, want := string(res.CSS), `.preserved-class{color:red}.b{color:blue}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if v := res.Tables.Selector[`\.existing`]; v != `\.preserved-class` {
		t.Errorf("seeded entry changed to %q", v)
	}
	if len(seed.Selector) != 2 {
		t.Errorf("initial tables must not be modified: %#v", seed.Selector)
	}
	if res.Created != 1 {
		t.Errorf("expected 1 new entry, got %d", res.Created)
	}
}

func TestTransform_ComplexExpansion(t *testing.T) {
	tables := &renamer.ConversionTables{
		Selector: renamer.Table{
			`\.existing-2`: `\.preserved-class-2\ \#preserved-id`,
			`\.list`:       `\.x\,\ \.y`,
			`\.swap`:       `\#swapped`,
		},
	}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "compound",
			in:   `.existing-2{color:red}`,
			want: `.preserved-class-2 #preserved-id{color:red}`,
		},
		{
			name: "inside selector",
			in:   `div>.existing-2:hover{color:red}`,
			want: `div>.preserved-class-2 #preserved-id:hover{color:red}`,
		},
		{
			name: "kind change",
			in:   `.swap{color:red}`,
			want: `#swapped{color:red}`,
		},
		{
			name: "list multiplies selector",
			in:   `div .list span{color:red}`,
			want: `div .x span,div .y span{color:red}`,
		},
		{
			name: "list stays inside wrapper",
			in:   `a:not(.list){color:red}`,
			want: `a:not(.x,.y){color:red}`,
		},
		{
			name: "nested",
			in:   `:is(.a, :has(> .existing-2)){color:red}`,
			want: `:is(.a,:has(>.preserved-class-2 #preserved-id)){color:red}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := transform(t, tt.in, renamer.Options{Mode: common.RenameModeMinimal, Tables: tables})
			if got := string(res.CSS); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestTransform_PassThrough(t *testing.T) {
	in := `[data-attr]{} div{} *{} li:nth-child(2n){} :host{} p::first-line{} svg|rect{}` +
		` :not(.a){} :where(#b){} li:nth-child(odd of .c){} :host(.d){} :-webkit-any(.e){} a:lang(en){}`
	res := transform(t, in, renamer.Options{Mode: common.RenameModeMinimal})

	want := renamer.Table{
		`\.a`: `\.a`,
		`\#b`: `\#b`,
		`\.c`: `\.c`,
		`\.d`: `\.d`,
		`\.e`: `\.e`,
	}
	if !reflect.DeepEqual(res.Tables.Selector, want) {
		t.Errorf("selector table:\n got %#v\nwant %#v", res.Tables.Selector, want)
	}
	if !strings.Contains(string(res.CSS), "li:nth-child(odd of .c){}") {
		t.Errorf("unexpected output %s", res.CSS)
	}
}

func TestTransform_Idempotence(t *testing.T) {
	in := growthCSS + `
@media (min-width:10px){#main .button:not(.x){--gap:2px;margin:var(--gap)}}
@property --main-color{syntax:'<color>';inherits:true;initial-value:red}`

	for _, mode := range []common.RenameMode{common.RenameModeHash, common.RenameModeMinimal, common.RenameModeDebug} {
		t.Run(mode.String(), func(t *testing.T) {
			first := transform(t, in, renamer.Options{Mode: mode})
			second := transform(t, in, renamer.Options{Mode: mode, Tables: first.Tables})

			if string(first.CSS) != string(second.CSS) {
				t.Errorf("output differs:\n%s\n%s", first.CSS, second.CSS)
			}
			if !reflect.DeepEqual(first.Tables, second.Tables) {
				t.Errorf("tables changed:\n%#v\n%#v", first.Tables, second.Tables)
			}
			if second.Created != 0 {
				t.Errorf("expected no new entries, got %d", second.Created)
			}
		})
	}
}

func TestTransform_EscapedNames(t *testing.T) {
	res := transform(t, `.\31 0{} .a\.b{} #\#x{}`, renamer.Options{Mode: common.RenameModeDebug})

	if got, want := string(res.CSS), `._10{}._a\.b{}#_\#x{}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	want := renamer.Table{
		`\.\\31\ 0`: `\._10`,
		`\.a\\\.b`:  `\._a\\\.b`,
		`\#\\\#x`:   `\#_\\\#x`,
	}
	if !reflect.DeepEqual(res.Tables.Selector, want) {
		t.Errorf("selector table:\n got %#v\nwant %#v", res.Tables.Selector, want)
	}
}

func TestTransform_BadStoredValue(t *testing.T) {
	tables := &renamer.ConversionTables{Selector: renamer.Table{`\.a`: `\.\ \>`}}
	_, err := renamer.New(nil).Transform([]byte(`.a{}`), renamer.Options{Tables: tables})
	if err == nil || !strings.Contains(err.Error(), `".a"`) {
		t.Fatalf("expected error naming the key, got %v", err)
	}
}

func TestTransform_Warnings(t *testing.T) {
	res := transform(t, `.a.5{color:red}.b{color:blue}`, renamer.Options{Mode: common.RenameModeMinimal})
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", res.Warnings)
	}
	if got, want := string(res.CSS), `.a.5{color:red}.a{color:blue}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
