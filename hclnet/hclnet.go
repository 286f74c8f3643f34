// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hclnet reads network declarations written in HCL.
//
// A network is a sequence of module blocks:
//
//	module "broadcaster" {
//	  outputs = [a, b]
//	}
//
//	module "a" {
//	  kind    = "toggle"
//	  outputs = [c]
//	}
//
//	module "c" {
//	  kind    = "aggregate"
//	  outputs = ["rx"]
//	}
//
// kind is one of "relay" (the default), "toggle" or "aggregate". Every
// declared module name is available as a variable when evaluating outputs,
// so declared modules can be referenced without quotes. Undeclared
// destinations, like sinks, must be quoted.
//
package hclnet

import (
	"github.com/db47h/pulsenet"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

type document struct {
	Modules []*moduleBlock `hcl:"module,block"`
}

type moduleBlock struct {
	Name    string         `hcl:"name,label"`
	Kind    string         `hcl:"kind,optional"`
	Outputs hcl.Expression `hcl:"outputs,optional"`
}

var kinds = map[string]pulsenet.Kind{
	"":          pulsenet.Relay,
	"relay":     pulsenet.Relay,
	"toggle":    pulsenet.Toggle,
	"aggregate": pulsenet.Aggregate,
}

// Decode decodes the module declarations in src. filename is only used in
// error messages.
//
func Decode(src []byte, filename string) ([]pulsenet.Decl, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, "parse network")
	}
	var doc document
	if diags = gohcl.DecodeBody(f.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Wrap(diags, "decode network")
	}

	ctx := &hcl.EvalContext{Variables: make(map[string]cty.Value, len(doc.Modules))}
	for _, m := range doc.Modules {
		ctx.Variables[m.Name] = cty.StringVal(m.Name)
	}

	decls := make([]pulsenet.Decl, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		k, ok := kinds[m.Kind]
		if !ok {
			return nil, errors.Errorf("module %s: unknown kind %q", m.Name, m.Kind)
		}
		outs, err := outputs(m.Outputs, ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", m.Name)
		}
		decls = append(decls, pulsenet.Decl{Kind: k, Name: m.Name, Outputs: outs})
	}
	return decls, nil
}

func outputs(expr hcl.Expression, ctx *hcl.EvalContext) ([]string, error) {
	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	v, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, errors.Wrap(err, "outputs must be a list of module names")
	}
	var outs []string
	for it := v.ElementIterator(); it.Next(); {
		_, e := it.Element()
		if e.IsNull() {
			return nil, errors.New("null module name in outputs")
		}
		outs = append(outs, e.AsString())
	}
	return outs, nil
}

// Parse builds a network from the HCL declarations in src.
//
func Parse(src []byte, filename string, opts ...pulsenet.Option) (*pulsenet.Network, error) {
	decls, err := Decode(src, filename)
	if err != nil {
		return nil, err
	}
	return pulsenet.New(decls, opts...)
}

// Encode renders decls as HCL module blocks. Outputs are always quoted.
//
func Encode(decls []pulsenet.Decl) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, d := range decls {
		if i > 0 {
			body.AppendNewline()
		}
		b := body.AppendNewBlock("module", []string{d.Name}).Body()
		if d.Kind != pulsenet.Relay {
			b.SetAttributeValue("kind", cty.StringVal(d.Kind.String()))
		}
		if len(d.Outputs) > 0 {
			outs := make([]cty.Value, len(d.Outputs))
			for j, o := range d.Outputs {
				outs[j] = cty.StringVal(o)
			}
			b.SetAttributeValue("outputs", cty.ListVal(outs))
		}
	}
	return hclwrite.Format(f.Bytes())
}
