/*
Package custody defines the common interfaces that tie together the
subpackages of the custody application, as well as implementations of some
of the simpler components.

We pass context through context.Context between app, middleware and
handlers. custody defines common keys to store info there, such as block
height, chain id and logger. Each extension, such as sigs, may add its own
keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so lower-level modules cannot
overwrite it.
*/
package custody
