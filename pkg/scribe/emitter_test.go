package scribe

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/dagger/testctx"
	"github.com/dagger/testctx/oteltest"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vito/scribe/pkg/ast"
	"github.com/vito/scribe/pkg/sexp"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

type EmitterSuite struct{}

func TestEmitter(tT *testing.T) {
	testctx.New(tT,
		oteltest.WithTracing[*testing.T](),
		oteltest.WithLogging[*testing.T](),
	).RunTests(EmitterSuite{})
}

type emitCase struct {
	name     string
	sexp     string
	expected string
}

func runEmitCases(t *testctx.T, tests []emitCase) {
	for _, tt := range tests {
		t.Run(tt.name, func(ctx context.Context, t *testctx.T) {
			result, err := FormatSource([]byte(tt.sexp))
			require.NoError(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}

func (EmitterSuite) TestDefinitions(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "class",
			sexp:     `s(:class, :Animal, nil, s(:scope))`,
			expected: "class Animal\n  \nend",
		},
		{
			name:     "class with superclass",
			sexp:     `s(:class, :Animal, s(:const, :Creature), s(:scope))`,
			expected: "class Animal < Creature\n  \nend",
		},
		{
			name:     "namespaced class",
			sexp:     `s(:class, s(:colon2, s(:const, :Scribe), :Animal), nil, s(:scope))`,
			expected: "class Scribe::Animal\n  \nend",
		},
		{
			name:     "top level class",
			sexp:     `s(:class, s(:colon3, :Animal), nil, s(:scope))`,
			expected: "class ::Animal\n  \nend",
		},
		{
			name:     "eigenclass",
			sexp:     `s(:sclass, s(:self), s(:scope))`,
			expected: "class << self\n  \nend",
		},
		{
			name:     "module",
			sexp:     `s(:module, :Animal, s(:scope))`,
			expected: "module Animal\n  \nend",
		},
		{
			name:     "namespaced module",
			sexp:     `s(:module, s(:colon2, s(:const, :Scribe), :Animal), s(:scope))`,
			expected: "module Scribe::Animal\n  \nend",
		},
		{
			name:     "method without params",
			sexp:     `s(:defn, :method, s(:args), s(:scope, s(:block, s(:nil))))`,
			expected: "def method\n  \nend",
		},
		{
			name:     "method with params",
			sexp:     `s(:defn, :method, s(:args, :one, :two), s(:scope, s(:block, s(:nil))))`,
			expected: "def method(one, two)\n  \nend",
		},
		{
			name: "method with optional params",
			sexp: `s(:defn, :method,
				s(:args, :one, :two, s(:block, s(:lasgn, :one, s(:lit, 1)), s(:lasgn, :two, s(:hash)))),
				s(:scope, s(:block, s(:nil))))`,
			expected: "def method(one = 1, two = {})\n  \nend",
		},
		{
			name:     "method with block param",
			sexp:     `s(:defn, :method, s(:args, :one, :"&two"), s(:scope, s(:block, s(:nil))))`,
			expected: "def method(one, &two)\n  \nend",
		},
		{
			name:     "singleton method with splat",
			sexp:     `s(:defs, s(:self), :create, s(:args, :"*args"), s(:scope, s(:block, s(:nil))))`,
			expected: "def self.create(*args)\n  \nend",
		},
		{
			name:     "method body",
			sexp:     `s(:defn, :hi, s(:args), s(:scope, s(:block, s(:cvasgn, :@@variable, s(:lit, 1)))))`,
			expected: "def hi\n  @@variable = 1\nend",
		},
		{
			name:     "leading comments",
			sexp:     `s(:defn, :speak, s(:args), s(:scope, s(:block, s(:str, "hi").line(3)))).line(2).comments("# Says hi.\n# Politely.\n")`,
			expected: "# Says hi.\n# Politely.\ndef speak\n  \"hi\"\nend",
		},
		{
			name:     "alias",
			sexp:     `s(:alias, s(:lit, :new), s(:lit, :old))`,
			expected: "alias :new :old",
		},
	})
}

func (EmitterSuite) TestRescue(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "begin rescue",
			sexp:     `s(:rescue, s(:resbody, s(:array), nil).line(3)).line(1)`,
			expected: "begin\n  \nrescue\n  \nend",
		},
		{
			name:     "begin rescue ensure",
			sexp:     `s(:ensure, s(:rescue, s(:resbody, s(:array), nil).line(3)).line(1), s(:nil).line(6)).line(1)`,
			expected: "begin\n  \nrescue\n  \nensure\n  nil\nend",
		},
		{
			name: "method wide rescue",
			sexp: `s(:defn, :method, s(:args),
				s(:scope, s(:block, s(:rescue, s(:resbody, s(:array), nil).line(3)).line(2)))).line(1)`,
			expected: "def method\n  \nrescue\n  \nend",
		},
		{
			name:     "dangling rescue",
			sexp:     `s(:rescue, s(:call, nil, :do_something, s(:arglist)), s(:resbody, s(:array), s(:nil))).line(1)`,
			expected: "do_something rescue nil",
		},
		{
			name: "typed rescue",
			sexp: `s(:rescue,
				s(:call, nil, :work, s(:arglist)).line(2),
				s(:resbody,
					s(:array, s(:const, :StandardError), s(:const, :IOError), s(:lasgn, :e, s(:gvar, :$!))),
					s(:call, nil, :handle, s(:arglist, s(:lvar, :e))).line(4)).line(3)).line(1)`,
			expected: "begin\n  work\nrescue StandardError, IOError => e\n  handle(e)\nend",
		},
	})
}

func (EmitterSuite) TestCalls(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "bare call",
			sexp:     `s(:call, nil, :method, s(:arglist))`,
			expected: "method",
		},
		{
			name:     "call with arguments",
			sexp:     `s(:call, nil, :method, s(:arglist, s(:str, "One"), s(:lit, 2)))`,
			expected: `method("One", 2)`,
		},
		{
			name:     "trailing hash argument",
			sexp:     `s(:call, nil, :method, s(:arglist, s(:str, "One"), s(:hash, s(:lit, :option), s(:lit, :one))))`,
			expected: `method("One", :option => :one)`,
		},
		{
			name:     "method without parenthesis",
			sexp:     `s(:call, nil, :require, s(:arglist, s(:str, "some_file")))`,
			expected: `require "some_file"`,
		},
		{
			name:     "puts",
			sexp:     `s(:call, nil, :puts, s(:arglist, s(:str, "hi")))`,
			expected: `puts "hi"`,
		},
		{
			name:     "receiver",
			sexp:     `s(:call, s(:gvar, :$:), :unshift, s(:arglist, s(:str, "directory")))`,
			expected: `$:.unshift("directory")`,
		},
		{
			name:     "do block",
			sexp:     `s(:iter, s(:call, nil, :method, s(:arglist)), nil)`,
			expected: "method do\n  \nend",
		},
		{
			name:     "brace block",
			sexp:     `s(:iter, s(:call, nil, :single_line_block, s(:arglist)), s(:lasgn, :a), s(:call, s(:lvar, :a), :do_something, s(:arglist))).line(1)`,
			expected: "single_line_block {|a| a.do_something }",
		},
		{
			name:     "brace block forces parens",
			sexp:     `s(:iter, s(:call, nil, :puts, s(:arglist, s(:lit, 1))), nil, s(:lvar, :x))`,
			expected: "puts(1) { x }",
		},
		{
			name: "do block with params",
			sexp: `s(:iter,
				s(:call, s(:lvar, :hash), :each, s(:arglist)),
				s(:masgn, s(:array, s(:lasgn, :k), s(:splat, s(:lasgn, :v)))),
				s(:call, nil, :p, s(:arglist, s(:lvar, :k))).line(2)).line(1)`,
			expected: "hash.each do |k, *v|\n  p(k)\nend",
		},
		{
			name:     "modifier argument",
			sexp:     `s(:call, nil, :foo, s(:arglist, s(:if, s(:call, nil, :y, s(:arglist)), s(:lit, 1), nil)))`,
			expected: "foo((1 if y))",
		},
		{
			name:     "modifier yield argument",
			sexp:     `s(:yield, s(:rescue, s(:call, nil, :a, s(:arglist)), s(:resbody, s(:array), s(:nil))))`,
			expected: "yield((a rescue nil))",
		},
		{
			name:     "modifier hash value",
			sexp:     `s(:array, s(:hash, s(:lit, :a), s(:if, s(:call, nil, :y, s(:arglist)), s(:lit, 1), nil)))`,
			expected: "[{:a => (1 if y)}]",
		},
		{
			name:     "block pass",
			sexp:     `s(:call, s(:lvar, :list), :map, s(:arglist, s(:block_pass, s(:lit, :to_s))))`,
			expected: "list.map(&:to_s)",
		},
		{
			name:     "index",
			sexp:     `s(:call, s(:lvar, :a), :[], s(:arglist, s(:lit, 1)))`,
			expected: "a[1]",
		},
		{
			name:     "index assignment",
			sexp:     `s(:attrasgn, s(:lvar, :a), :[]=, s(:arglist, s(:lit, 1), s(:lit, 2)))`,
			expected: "a[1] = 2",
		},
		{
			name:     "attribute assignment",
			sexp:     `s(:attrasgn, s(:self), :name=, s(:arglist, s(:str, "x")))`,
			expected: `self.name = "x"`,
		},
		{
			name:     "unary minus",
			sexp:     `s(:call, s(:lvar, :a), :-@, s(:arglist))`,
			expected: "-a",
		},
		{
			name:     "super",
			sexp:     `s(:block, s(:zsuper), s(:super, s(:lvar, :a)), s(:super))`,
			expected: "super\nsuper(a)\nsuper()",
		},
		{
			name:     "yield",
			sexp:     `s(:block, s(:yield), s(:yield, s(:lit, 1), s(:lit, 2)))`,
			expected: "yield\nyield(1, 2)",
		},
		{
			name:     "defined",
			sexp:     `s(:defined, s(:ivar, :@x))`,
			expected: "defined?(@x)",
		},
	})
}

func (EmitterSuite) TestOperators(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "tighter right operand",
			sexp:     `s(:call, s(:lvar, :a), :+, s(:arglist, s(:call, s(:lvar, :b), :*, s(:arglist, s(:lvar, :c)))))`,
			expected: "a + b * c",
		},
		{
			name:     "looser left operand",
			sexp:     `s(:call, s(:call, s(:lvar, :a), :+, s(:arglist, s(:lvar, :b))), :*, s(:arglist, s(:lvar, :c)))`,
			expected: "(a + b) * c",
		},
		{
			name:     "left associative",
			sexp:     `s(:call, s(:call, s(:lvar, :a), :-, s(:arglist, s(:lvar, :b))), :-, s(:arglist, s(:lvar, :c)))`,
			expected: "a - b - c",
		},
		{
			name:     "grouped right operand",
			sexp:     `s(:call, s(:lvar, :a), :-, s(:arglist, s(:call, s(:lvar, :b), :-, s(:arglist, s(:lvar, :c)))))`,
			expected: "a - (b - c)",
		},
		{
			name:     "right associative power",
			sexp:     `s(:call, s(:lvar, :a), :**, s(:arglist, s(:call, s(:lvar, :b), :**, s(:arglist, s(:lvar, :c)))))`,
			expected: "a ** b ** c",
		},
		{
			name:     "operator receiver",
			sexp:     `s(:call, s(:call, s(:lvar, :a), :+, s(:arglist, s(:lvar, :b))), :to_s, s(:arglist))`,
			expected: "(a + b).to_s",
		},
		{
			name:     "append",
			sexp:     `s(:call, s(:call, s(:self), :array, s(:arglist)), :<<, s(:arglist, s(:str, "append")))`,
			expected: `self.array << "append"`,
		},
		{
			name:     "or",
			sexp:     `s(:or, s(:call, nil, :one, s(:arglist)), s(:call, nil, :two, s(:arglist)))`,
			expected: "(one || two)",
		},
		{
			name:     "and",
			sexp:     `s(:and, s(:call, nil, :one, s(:arglist)), s(:call, nil, :two, s(:arglist)))`,
			expected: "(one && two)",
		},
		{
			name:     "not",
			sexp:     `s(:not, s(:call, nil, :something, s(:arglist)))`,
			expected: "!something",
		},
		{
			name:     "not equal",
			sexp:     `s(:not, s(:call, s(:lvar, :a), :==, s(:arglist, s(:lvar, :b))))`,
			expected: "a != b",
		},
		{
			name:     "not match",
			sexp:     `s(:not, s(:call, s(:lvar, :a), :=~, s(:arglist, s(:lit, /x/))))`,
			expected: "a !~ /x/",
		},
	})
}

func (EmitterSuite) TestCase(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "case with else",
			sexp:     `s(:case, s(:call, nil, :something, s(:arglist)), s(:when, s(:array, s(:lit, 1)), nil), s(:lit, 2))`,
			expected: "case something\nwhen 1\n  \nelse\n  2\nend",
		},
		{
			name:     "case without subject",
			sexp:     `s(:case, nil, s(:when, s(:array, s(:call, s(:lit, 1), :==, s(:arglist, s(:lit, 1)))), nil), nil)`,
			expected: "case\nwhen 1 == 1\n  \nend",
		},
		{
			name: "several values",
			sexp: `s(:case, s(:lvar, :x),
				s(:when, s(:array, s(:lit, 1), s(:lit, 2)), s(:str, "low")),
				s(:when, s(:array, s(:const, :String)), s(:str, "text")),
				nil)`,
			expected: "case x\nwhen 1, 2\n  \"low\"\nwhen String\n  \"text\"\nend",
		},
	})
}

func (EmitterSuite) TestAssignments(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "global",
			sexp:     `s(:gasgn, :$variable, s(:lit, 1))`,
			expected: "$variable = 1",
		},
		{
			name:     "class variable",
			sexp:     `s(:cvdecl, :@@variable, s(:lit, 1))`,
			expected: "@@variable = 1",
		},
		{
			name:     "constant",
			sexp:     `s(:cdecl, :VERSION, s(:str, "1.0"))`,
			expected: `VERSION = "1.0"`,
		},
		{
			name:     "multiple",
			sexp:     `s(:masgn, s(:array, s(:lasgn, :variable_1), s(:lasgn, :variable_2)), s(:array, s(:lit, 1), s(:lit, 2)))`,
			expected: "variable_1, variable_2 = 1, 2",
		},
		{
			name:     "or assign",
			sexp:     `s(:op_asgn_or, s(:ivar, :@variable), s(:iasgn, :@variable, s(:lit, 1)))`,
			expected: "@variable ||= 1",
		},
		{
			name:     "and assign",
			sexp:     `s(:op_asgn_and, s(:ivar, :@variable), s(:iasgn, :@variable, s(:lit, 1)))`,
			expected: "@variable &&= 1",
		},
		{
			name:     "index or assign",
			sexp:     `s(:op_asgn1, s(:ivar, :@variable), s(:arglist, s(:str, "something")), :"||", s(:lit, 1))`,
			expected: `@variable["something"] ||= 1`,
		},
		{
			name:     "attribute operator assign",
			sexp:     `s(:op_asgn2, s(:lvar, :a), :b=, :+, s(:lit, 1))`,
			expected: "a.b += 1",
		},
		{
			name:     "modifier if value",
			sexp:     `s(:iasgn, :@x, s(:if, s(:call, nil, :y, s(:arglist)), s(:lit, 1), nil))`,
			expected: "@x = (1 if y)",
		},
		{
			name:     "modifier unless value",
			sexp:     `s(:lasgn, :x, s(:if, s(:call, nil, :y, s(:arglist)), nil, s(:lit, 1)))`,
			expected: "x = (1 unless y)",
		},
		{
			name:     "modifier rescue value",
			sexp:     `s(:lasgn, :x, s(:rescue, s(:call, nil, :a, s(:arglist)), s(:resbody, s(:array), s(:nil))))`,
			expected: "x = (a rescue nil)",
		},
		{
			name:     "modifier or assign value",
			sexp:     `s(:op_asgn_or, s(:ivar, :@x), s(:iasgn, :@x, s(:if, s(:call, nil, :y, s(:arglist)), s(:lit, 1), nil)))`,
			expected: "@x ||= (1 if y)",
		},
		{
			name:     "ternary value",
			sexp:     `s(:lasgn, :x, s(:if, s(:lvar, :a), s(:lit, 1), s(:lit, 2)))`,
			expected: "x = a ? 1 : 2",
		},
		{
			name:     "modifier statement",
			sexp:     `s(:if, s(:call, nil, :y, s(:arglist)), s(:lasgn, :x, s(:lit, 1)), nil)`,
			expected: "x = 1 if y",
		},
	})
}

func (EmitterSuite) TestConditionals(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "if",
			sexp:     `s(:if, s(:true), s(:call, nil, :something, s(:arglist)).line(2), nil).line(1)`,
			expected: "if true\n  something\nend",
		},
		{
			name:     "unless",
			sexp:     `s(:if, s(:true), nil, s(:call, nil, :something, s(:arglist)).line(2)).line(1)`,
			expected: "unless true\n  something\nend",
		},
		{
			name:     "if else",
			sexp:     `s(:if, s(:true), s(:call, nil, :something, s(:arglist)).line(2), s(:call, nil, :something_else, s(:arglist)).line(4)).line(1)`,
			expected: "if true\n  something\nelse\n  something_else\nend",
		},
		{
			name:     "if else on three lines",
			sexp:     `s(:if, s(:true), s(:lit, 1).line(2), s(:lit, 2).line(3)).line(1)`,
			expected: "if true\n  1\nelse\n  2\nend",
		},
		{
			name:     "dangling if",
			sexp:     `s(:if, s(:true), s(:call, nil, :something, s(:arglist)), nil).line(1)`,
			expected: "something if true",
		},
		{
			name:     "dangling unless",
			sexp:     `s(:if, s(:true), nil, s(:call, nil, :something, s(:arglist))).line(1)`,
			expected: "something unless true",
		},
		{
			name:     "ternary",
			sexp:     `s(:if, s(:call, nil, :something, s(:arglist)), s(:true), s(:false)).line(1)`,
			expected: "something ? true : false",
		},
		{
			name: "elsif",
			sexp: `s(:if, s(:call, s(:lvar, :a), :==, s(:arglist, s(:lit, 1))).line(1),
				s(:lit, 1).line(2),
				s(:if, s(:call, s(:lvar, :a), :>, s(:arglist, s(:lit, 3))).line(3),
					s(:lit, 2).line(4),
					s(:lit, 3).line(6)).line(3)).line(1)`,
			expected: "if a == 1\n  1\nelsif a > 3\n  2\nelse\n  3\nend",
		},
		{
			name:     "multi-line then",
			sexp:     `s(:if, s(:true), s(:block, s(:call, nil, :one, s(:arglist)), s(:call, nil, :two, s(:arglist))), nil).line(1)`,
			expected: "if true\n  one\n  two\nend",
		},
	})
}

func (EmitterSuite) TestLoops(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "while",
			sexp:     `s(:while, s(:true), nil, true)`,
			expected: "while true\n  \nend",
		},
		{
			name:     "until",
			sexp:     `s(:until, s(:true), nil, true)`,
			expected: "until true\n  \nend",
		},
		{
			name:     "post condition",
			sexp:     `s(:while, s(:call, nil, :c, s(:arglist)), s(:call, nil, :work, s(:arglist)), false)`,
			expected: "begin\n  work\nend while c",
		},
		{
			name:     "for",
			sexp:     `s(:for, s(:call, nil, :array, s(:arglist)), s(:lasgn, :something))`,
			expected: "for something in array\n  \nend",
		},
		{
			name:     "for with destructuring",
			sexp:     `s(:for, s(:lvar, :pairs), s(:masgn, s(:array, s(:lasgn, :k), s(:lasgn, :v))), s(:call, nil, :p, s(:arglist, s(:lvar, :k))))`,
			expected: "for k, v in pairs\n  p(k)\nend",
		},
	})
}

func (EmitterSuite) TestJumps(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "return",
			sexp:     `s(:return)`,
			expected: "return",
		},
		{
			name:     "return value",
			sexp:     `s(:return, s(:lit, 1))`,
			expected: "return 1",
		},
		{
			name:     "return array",
			sexp:     `s(:return, s(:array, s(:lit, 1), s(:lit, 2)))`,
			expected: "return [1, 2]",
		},
		{
			name:     "return modifier value",
			sexp:     `s(:return, s(:if, s(:call, nil, :y, s(:arglist)), s(:lit, 1), nil))`,
			expected: "return (1 if y)",
		},
		{
			name:     "next break redo retry",
			sexp:     `s(:block, s(:next), s(:break, s(:lit, 1)), s(:redo), s(:retry))`,
			expected: "next\nbreak 1\nredo\nretry",
		},
	})
}

func (EmitterSuite) TestLiterals(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "string",
			sexp:     `s(:str, "my string")`,
			expected: `"my string"`,
		},
		{
			name:     "interpolated string",
			sexp:     `s(:dstr, "my ", s(:evstr, s(:call, nil, :test, s(:arglist))), s(:str, " string"))`,
			expected: `"my #{test} string"`,
		},
		{
			name:     "escapes",
			sexp:     `s(:str, "a\"b\\c\n\#{x}")`,
			expected: `"a\"b\\c\n\#{x}"`,
		},
		{
			name:     "invalid utf-8",
			sexp:     `s(:str, "\xFF\xFE")`,
			expected: `"\xFF\xFE"`,
		},
		{
			name:     "invalid byte after multibyte",
			sexp:     `s(:str, "café\xFF")`,
			expected: `"café\xFF"`,
		},
		{
			name:     "interpolated symbol",
			sexp:     `s(:dsym, "a", s(:evstr, s(:lvar, :b)))`,
			expected: `:"a#{b}"`,
		},
		{
			name:     "command",
			sexp:     `s(:xstr, "ls")`,
			expected: "`ls`",
		},
		{
			name:     "hash",
			sexp:     `s(:hash, s(:lit, :hash), s(:lit, :one), s(:lit, :another), s(:lit, :two))`,
			expected: "{:hash => :one, :another => :two}",
		},
		{
			name:     "empty hash",
			sexp:     `s(:hash)`,
			expected: "{}",
		},
		{
			name: "long hash",
			sexp: `s(:hash,
				s(:lit, :key1), s(:lit, :value1),
				s(:lit, :key2), s(:lit, :value2),
				s(:lit, :key3), s(:lit, :value3),
				s(:lit, :key4), s(:lit, :value4),
				s(:lit, :key5), s(:lit, :value5),
				s(:lit, :key6), s(:lit, :value6))`,
			expected: "{\n  :key1 => :value1,\n  :key2 => :value2,\n  :key3 => :value3,\n  :key4 => :value4,\n  :key5 => :value5,\n  :key6 => :value6\n}",
		},
		{
			name:     "array",
			sexp:     `s(:array, s(:lit, 1), s(:str, "a"))`,
			expected: `[1, "a"]`,
		},
		{
			name:     "inclusive range",
			sexp:     `s(:lit, 1..10)`,
			expected: "1..10",
		},
		{
			name:     "exclusive range",
			sexp:     `s(:lit, 1...10)`,
			expected: "1...10",
		},
		{
			name:     "range receiver",
			sexp:     `s(:call, s(:lit, 1..10), :each, s(:arglist))`,
			expected: "(1..10).each",
		},
		{
			name:     "range expression",
			sexp:     `s(:dot2, s(:lvar, :a), s(:lvar, :b))`,
			expected: "a..b",
		},
		{
			name:     "regexp",
			sexp:     `s(:lit, /[a-zA-Z]$/)`,
			expected: "/[a-zA-Z]$/",
		},
		{
			name:     "interpolated regexp",
			sexp:     `s(:dregx, "[a-Z", s(:evstr, s(:call, nil, :something, s(:arglist))), s(:str, "]"))`,
			expected: "/[a-Z#{something}]/",
		},
		{
			name:     "numbered reference",
			sexp:     `s(:nth_ref, 1)`,
			expected: "$1",
		},
		{
			name:     "back reference",
			sexp:     `s(:back_ref, :&)`,
			expected: "$&",
		},
		{
			name:     "symbols",
			sexp:     `s(:array, s(:lit, :empty?), s(:lit, :[]=), s(:lit, :"foo bar"))`,
			expected: `[:empty?, :[]=, :"foo bar"]`,
		},
		{
			name:     "floats",
			sexp:     `s(:array, s(:lit, 1.0), s(:lit, 2.5))`,
			expected: "[1.0, 2.5]",
		},
	})
}

func (EmitterSuite) TestBlankLines(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "same grouped method",
			sexp:     `s(:block, s(:call, nil, :require, s(:arglist, s(:str, "a"))), s(:call, nil, :require, s(:arglist, s(:str, "b"))))`,
			expected: "require \"a\"\nrequire \"b\"",
		},
		{
			name:     "different grouped methods",
			sexp:     `s(:block, s(:call, nil, :require, s(:arglist, s(:str, "a"))), s(:call, nil, :attr_accessor, s(:arglist, s(:lit, :b))))`,
			expected: "require \"a\"\n\nattr_accessor :b",
		},
		{
			name:     "grouped then plain",
			sexp:     `s(:block, s(:call, nil, :require, s(:arglist, s(:str, "a"))), s(:call, nil, :foo, s(:arglist)))`,
			expected: "require \"a\"\n\nfoo",
		},
		{
			name:     "plain statements",
			sexp:     `s(:block, s(:call, nil, :foo, s(:arglist)), s(:call, nil, :bar, s(:arglist)))`,
			expected: "foo\nbar",
		},
		{
			name:     "brace block",
			sexp:     `s(:block, s(:lasgn, :x, s(:lit, 1)), s(:iter, s(:call, s(:lvar, :list), :each, s(:arglist)), s(:lasgn, :a), s(:lvar, :a)))`,
			expected: "x = 1\n\nlist.each {|a| a }",
		},
		{
			name:     "after a definition",
			sexp:     `s(:block, s(:class, :A, nil, s(:scope)), s(:call, nil, :foo, s(:arglist)))`,
			expected: "class A\n  \nend\n\nfoo",
		},
	})
}

func (EmitterSuite) TestIndentation(ctx context.Context, t *testctx.T) {
	src := `s(:module, :A,
		s(:scope, s(:class, :B, nil,
			s(:scope, s(:defn, :c, s(:args),
				s(:scope, s(:block,
					s(:if, s(:lvar, :x).line(4), s(:lit, 1).line(5), nil).line(4)))))))).line(1)`

	t.Run("nested bodies", func(ctx context.Context, t *testctx.T) {
		result, err := FormatSource([]byte(src))
		require.NoError(t, err)
		require.Equal(t, "module A\n  class B\n    def c\n      if x\n        1\n      end\n    end\n  end\nend", result)
	})

	t.Run("wider indent", func(ctx context.Context, t *testctx.T) {
		cfg := DefaultConfig()
		cfg.DefaultIndent = 4
		result, err := New(cfg).Format([]byte(src), nil)
		require.NoError(t, err)
		require.Equal(t, "module A\n    class B\n        def c\n            if x\n                1\n            end\n        end\n    end\nend", result)
	})

	t.Run("level restored", func(ctx context.Context, t *testctx.T) {
		node, err := sexp.Parse([]byte(src))
		require.NoError(t, err)
		r := &renderer{Emitter: New(DefaultConfig())}
		r.emit(node)
		require.Zero(t, r.Level())
	})

	t.Run("level restored after malformed node", func(ctx context.Context, t *testctx.T) {
		r := &renderer{Emitter: New(DefaultConfig())}
		broken := ast.BuildModule("A", ast.BuildClass("B", nil, &ast.If{}))
		require.Panics(t, func() { r.emit(broken) })
		require.Zero(t, r.Level())
	})

	t.Run("negative delta", func(ctx context.Context, t *testctx.T) {
		var b textBuilder
		out := b.indented(2, func() string {
			return b.nl("a") + b.indented(-2, func() string {
				return b.nl("b")
			}) + b.nl("c")
		})
		require.Equal(t, "\n  a\nb\n  c", out)
		require.Zero(t, b.Level())
	})
}

func (EmitterSuite) TestConfiguration(ctx context.Context, t *testctx.T) {
	call := `s(:call, nil, :foo, s(:arglist, s(:lit, 1), s(:lit, 2)))`

	t.Run("parenthesised by default", func(ctx context.Context, t *testctx.T) {
		result, err := FormatSource([]byte(call))
		require.NoError(t, err)
		require.Equal(t, "foo(1, 2)", result)
	})

	t.Run("configured without parenthesis", func(ctx context.Context, t *testctx.T) {
		cfg := DefaultConfig()
		cfg.MethodsWithoutParenthesis = append(cfg.MethodsWithoutParenthesis, "foo")
		result, err := New(cfg).Format([]byte(call), nil)
		require.NoError(t, err)
		require.Equal(t, "foo 1, 2", result)
	})

	t.Run("hash threshold", func(ctx context.Context, t *testctx.T) {
		cfg := DefaultConfig()
		cfg.LongHashKeySize = 2
		result, err := New(cfg).Format([]byte(`s(:hash, s(:lit, :a), s(:lit, 1), s(:lit, :b), s(:lit, 2))`), nil)
		require.NoError(t, err)
		require.Equal(t, "{\n  :a => 1,\n  :b => 2\n}", result)
	})

	t.Run("trailing hash argument stays inline", func(ctx context.Context, t *testctx.T) {
		cfg := DefaultConfig()
		cfg.LongHashKeySize = 2
		result, err := New(cfg).Format([]byte(`s(:call, nil, :foo, s(:arglist, s(:hash, s(:lit, :a), s(:lit, 1), s(:lit, :b), s(:lit, 2))))`), nil)
		require.NoError(t, err)
		require.Equal(t, "foo(:a => 1, :b => 2)", result)
	})

	t.Run("emitter owns its config", func(ctx context.Context, t *testctx.T) {
		cfg := DefaultConfig()
		e := New(cfg)
		cfg.MethodsWithoutParenthesis[0] = "foo"
		require.Equal(t, "attr_accessor", e.Config().MethodsWithoutParenthesis[0])

		result, err := e.Format([]byte(call), nil)
		require.NoError(t, err)
		require.Equal(t, "foo(1, 2)", result)
	})
}

func (EmitterSuite) TestUnknown(ctx context.Context, t *testctx.T) {
	runEmitCases(t, []emitCase{
		{
			name:     "alone",
			sexp:     `s(:flip2, s(:lvar, :a), s(:lvar, :b))`,
			expected: "## UNKNOWN: flip2 ##",
		},
		{
			name:     "among statements",
			sexp:     `s(:block, s(:call, nil, :foo, s(:arglist)), s(:svalue, s(:splat, s(:lvar, :a))))`,
			expected: "foo\n## UNKNOWN: svalue ##",
		},
	})
}

func (EmitterSuite) TestMalformed(ctx context.Context, t *testctx.T) {
	t.Run("missing operand", func(ctx context.Context, t *testctx.T) {
		node := ast.BuildClass("A", nil, &ast.Logical{
			Loc:  ast.At(4),
			Of:   ast.KindAnd,
			Left: &ast.Var{Of: ast.KindLvar, Name: "a"},
		})
		out, err := Emit(node)
		require.Empty(t, out)

		var malformed *MalformedNodeError
		require.True(t, errors.As(err, &malformed))
		require.Equal(t, ast.KindAnd, malformed.Kind)
		require.Equal(t, 4, malformed.Line)
		require.Equal(t, "right operand", malformed.Slot)
		require.EqualError(t, err, "line 4: malformed and: missing right operand")
	})

	t.Run("missing condition", func(ctx context.Context, t *testctx.T) {
		_, err := Emit(&ast.If{Loc: ast.At(2), Then: &ast.Keyword{Of: ast.KindNil}})
		var malformed *MalformedNodeError
		require.ErrorAs(t, err, &malformed)
		require.Equal(t, "condition", malformed.Slot)
	})

	t.Run("wrapped by format", func(ctx context.Context, t *testctx.T) {
		_, err := FormatSource([]byte(`s(:lit`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse: ")
	})
}

func (EmitterSuite) TestConcurrentEmit(ctx context.Context, t *testctx.T) {
	node, err := sexp.Parse([]byte(`s(:class, :Animal, s(:const, :Creature), s(:scope, s(:defn, :speak, s(:args), s(:scope, s(:block, s(:str, "hi").line(3)))).line(2))).line(1)`))
	require.NoError(t, err)

	e := New(DefaultConfig())
	expected, err := e.Emit(node)
	require.NoError(t, err)
	require.Equal(t, "class Animal < Creature\n  def speak\n    \"hi\"\n  end\nend", expected)

	results := make([]string, 32)
	var eg errgroup.Group
	for i := range results {
		eg.Go(func() error {
			out, err := e.Emit(node)
			results[i] = out
			return err
		})
	}
	require.NoError(t, eg.Wait())
	for _, out := range results {
		require.Equal(t, expected, out)
	}
}
