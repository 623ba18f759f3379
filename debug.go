// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build debug

package sglib

const debug = true
