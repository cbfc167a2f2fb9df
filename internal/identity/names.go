package identity

// nameCorpus is the fixed table of middle names. The hash seed indexes into
// it modulo the table length, so the table order is part of the derivation
// contract: entries must never be reordered or removed, only appended.
var nameCorpus = []string{
	"ada", "alder", "amber", "antler", "apollo", "arden", "aspen", "aster",
	"atlas", "auburn", "avery", "bailey", "basil", "beacon", "birch", "blaine",
	"blair", "blaze", "bodhi", "borealis", "bracken", "briar", "brook", "bryn",
	"calla", "camden", "canyon", "caspian", "cedar", "chandler", "chicory", "cipher",
	"clover", "cobalt", "colby", "comet", "coral", "cosmo", "cove", "cricket",
	"crimson", "cypress", "dale", "dandelion", "darby", "dawn", "delta", "denver",
	"dune", "dusk", "echo", "eden", "elm", "ember", "emerson", "everest",
	"evergreen", "fable", "falcon", "fawn", "fennel", "fern", "finch", "fjord",
	"flint", "forest", "fox", "frost", "gale", "garnet", "gibson", "ginger",
	"glen", "goldie", "granite", "grove", "gull", "hale", "harbor", "harlow",
	"hawthorn", "hazel", "heath", "heron", "hickory", "hollis", "holly", "hunter",
	"indigo", "iris", "ivy", "jasper", "jay", "juniper", "kai", "kestrel",
	"lake", "larch", "lark", "laurel", "lavender", "linden", "lotus", "lumen",
	"lupin", "lyric", "maple", "marigold", "marlow", "meadow", "mercury", "meridian",
	"merle", "mica", "midnight", "mirth", "monarch", "moss", "nettle", "nimbus",
	"north", "nutmeg", "oak", "ocean", "ochre", "onyx", "opal", "orion",
	"osprey", "otter", "pepper", "perch", "peregrine", "pine", "piper", "plume",
	"poppy", "prairie", "quill", "quince", "raven", "reed", "ridge", "river",
	"robin", "rook", "rowan", "rune", "rust", "saffron", "sage", "salix",
	"sandpiper", "sequoia", "shale", "sierra", "sky", "slate", "sleet", "sol",
	"sorrel", "sparrow", "spruce", "starling", "sterling", "stone", "storm", "summit",
	"sumner", "sycamore", "tamarack", "tansy", "tarn", "teal", "tempest", "thicket",
	"thistle", "thorn", "thrush", "tide", "timber", "topaz", "tundra", "umber",
	"vale", "verdant", "vesper", "violet", "wade", "walnut", "wilder", "willow",
	"winter", "wisteria", "wolf", "wren", "yarrow", "yew", "zenith", "zephyr",
}
