package topics

// Topic records live under ns/<namespace>/topic/<name>/meta as JSON.

func topicMetaKey(ns, name string) []byte {
	k := make([]byte, 0, 3+len(ns)+7+len(name)+5)
	k = append(k, "ns/"...)
	k = append(k, ns...)
	k = append(k, "/topic/"...)
	k = append(k, name...)
	k = append(k, "/meta"...)
	return k
}

func topicListPrefix(ns string) []byte {
	k := make([]byte, 0, 3+len(ns)+7)
	k = append(k, "ns/"...)
	k = append(k, ns...)
	k = append(k, "/topic/"...)
	return k
}
